package enrich

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

// deriveItemMetrics computes the per-item revenue and cost columns. The
// cost join is exact equality on (product_id, shipped month start); a
// miss falls back to FallbackCostRatio of the unit price instead of
// erroring.
func (p *Pipeline) deriveItemMetrics(items []ledger.OrderItem, costs map[costKey]decimal.Decimal) []ledger.EnrichedOrderItem {
	fallbackRatio := decimal.NewFromFloat(p.sim.FallbackCostRatio)

	enriched := make([]ledger.EnrichedOrderItem, 0, len(items))
	for _, item := range items {
		isReturn := item.IsReturn()
		transactionType := enums.TransactionTypeSale
		if isReturn {
			transactionType = enums.TransactionTypeReturn
		}

		quantity := decimal.NewFromInt(item.Quantity)
		gross := quantity.Mul(item.UnitPrice)
		net := gross.Add(item.LineDiscountAmount)

		unitCost, ok := costs[costKey{
			productID: item.ProductID,
			month:     ledger.MonthStart(item.ShippedDate),
		}]
		if !ok {
			unitCost = item.UnitPrice.Mul(fallbackRatio)
		}

		enriched = append(enriched, ledger.EnrichedOrderItem{
			OrderItem:        item,
			IsReturn:         isReturn,
			TransactionType:  transactionType,
			GrossItemRevenue: gross,
			NetItemRevenue:   net,
			UnitCost:         unitCost,
			ItemCOGS:         quantity.Mul(unitCost),
		})
	}
	return enriched
}
