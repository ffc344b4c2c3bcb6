package enrich

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
)

// allocateShipping draws one shipping rate per country, charges each
// order rate × max(0, order net revenue), and distributes the charge
// across the order's items proportionally to |net item revenue|.
//
// Orders whose items net to exactly zero in absolute terms allocate zero
// to every item; the zero denominator is an explicit branch, not an error.
func (p *Pipeline) allocateShipping(orders []ledger.Order, items []ledger.EnrichedOrderItem) ([]ledger.EnrichedOrder, []ledger.EnrichedOrderItem) {
	rates := p.drawCountryRates(orders)

	orderNet := make(map[string]decimal.Decimal, len(orders))
	absNet := make(map[string]decimal.Decimal, len(orders))
	for _, item := range items {
		orderNet[item.OrderID] = orderNet[item.OrderID].Add(item.NetItemRevenue)
		absNet[item.OrderID] = absNet[item.OrderID].Add(item.NetItemRevenue.Abs())
	}

	shippingByOrder := make(map[string]decimal.Decimal, len(orders))
	enrichedOrders := make([]ledger.EnrichedOrder, 0, len(orders))
	for _, order := range orders {
		rate, ok := rates[order.ShippingCountry]
		if !ok {
			rate = decimal.Zero
		}

		net := orderNet[order.OrderID]
		shippingCost := decimal.Zero
		if net.IsPositive() {
			shippingCost = rate.Mul(net)
		}
		shippingByOrder[order.OrderID] = shippingCost

		enrichedOrders = append(enrichedOrders, ledger.EnrichedOrder{
			Order:             order,
			ShipRate:          rate,
			OrderNet:          net,
			ShippingCostOrder: shippingCost,
		})
	}

	enrichedItems := make([]ledger.EnrichedOrderItem, len(items))
	copy(enrichedItems, items)
	for i := range enrichedItems {
		item := &enrichedItems[i]

		allocated := decimal.Zero
		denominator := absNet[item.OrderID]
		if denominator.IsPositive() {
			allocated = shippingByOrder[item.OrderID].
				Mul(item.NetItemRevenue.Abs()).
				Div(denominator)
		}
		item.AllocatedShipping = allocated

		if item.IsReturn {
			item.ReturnAmount = item.NetItemRevenue.Abs()
		} else {
			item.ReturnAmount = decimal.Zero
		}
	}

	return enrichedOrders, enrichedItems
}

func (p *Pipeline) drawCountryRates(orders []ledger.Order) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal)
	for _, order := range orders {
		country := order.ShippingCountry
		if _, ok := rates[country]; ok {
			continue
		}

		lo, hi := p.sim.BaseRateLow, p.sim.BaseRateHigh
		if _, high := p.highRate[country]; high {
			lo, hi = p.sim.HighRateLow, p.sim.HighRateHigh
		}
		rates[country] = decimal.NewFromFloat(p.src.Uniform("ship-rate:"+country, lo, hi))
	}
	return rates
}
