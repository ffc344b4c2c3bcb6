package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/config"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/simrand"
)

// BuildLedger normalizes flat transaction records into the orders and
// order_items tables. Shipping lag, channel and discounts are simulated;
// every draw is keyed by the item's position so a fixed seed reproduces
// the same ledger.
//
// Sale lines ship 1..LagDaysMax days after the order date; return lines
// keep the order date. Discounts are drawn on sale lines only and stored
// as non-positive amounts.
func BuildLedger(records []FlatRecord, sim config.SimulationConfig, src *simrand.Source) ([]Order, []OrderItem) {
	items := make([]OrderItem, 0, len(records))

	for i, rec := range records {
		itemID := int64(i + 1)

		shipped := rec.OrderDate
		if rec.Quantity > 0 {
			span := sim.LagDaysMax - sim.LagDaysMin + 1
			if span < 1 {
				span = 1
			}
			lag := sim.LagDaysMin + src.IntN(itemKey("lag", itemID), span)
			shipped = rec.OrderDate.AddDate(0, 0, lag)
		}

		channel := enums.ChannelWholesale
		if src.Float64(itemKey("channel", itemID)) < sim.OnlineShare {
			channel = enums.ChannelOnline
		}

		discount := decimal.Zero
		if rec.Quantity > 0 && src.Float64(itemKey("discount", itemID)) < sim.DiscountShare {
			rate := src.Uniform(itemKey("discount-rate", itemID), sim.DiscountRateLow, sim.DiscountRateHigh)
			gross := decimal.NewFromInt(rec.Quantity).Mul(rec.UnitPrice)
			discount = gross.Mul(decimal.NewFromFloat(rate)).Neg()
		}

		items = append(items, OrderItem{
			OrderItemID:        itemID,
			OrderID:            rec.OrderID,
			CustomerID:         rec.CustomerID,
			ProductID:          rec.ProductID,
			ProductDescription: rec.ProductDescription,
			Quantity:           rec.Quantity,
			UnitPrice:          rec.UnitPrice,
			LineDiscountAmount: discount,
			OrderDate:          rec.OrderDate,
			ShippedDate:        shipped,
			ShippingCountry:    rec.ShippingCountry,
			Channel:            channel,
		})
	}

	return buildOrders(items), items
}

// buildOrders aggregates items into one row per order_id: earliest order
// date, latest shipped date, first customer/country/channel, item count.
func buildOrders(items []OrderItem) []Order {
	byID := make(map[string]*Order, len(items))
	ordered := make([]string, 0, len(items))

	for _, item := range items {
		order, ok := byID[item.OrderID]
		if !ok {
			byID[item.OrderID] = &Order{
				OrderID:         item.OrderID,
				CustomerID:      item.CustomerID,
				OrderDate:       item.OrderDate,
				ShippedDate:     item.ShippedDate,
				ShippingCountry: item.ShippingCountry,
				Channel:         item.Channel,
				OrderLineCount:  1,
			}
			ordered = append(ordered, item.OrderID)
			continue
		}
		if item.OrderDate.Before(order.OrderDate) {
			order.OrderDate = item.OrderDate
		}
		if item.ShippedDate.After(order.ShippedDate) {
			order.ShippedDate = item.ShippedDate
		}
		order.OrderLineCount++
	}

	orders := make([]Order, 0, len(ordered))
	for _, id := range ordered {
		orders = append(orders, *byID[id])
	}
	return orders
}

func itemKey(kind string, itemID int64) string {
	return fmt.Sprintf("%s:item:%d", kind, itemID)
}
