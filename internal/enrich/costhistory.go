package enrich

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

type costKey struct {
	productID string
	month     time.Time
}

const monthKeyLayout = "2006-01"

// synthesizeCostHistory derives one baseline per distinct product and one
// simulated unit cost per (product, month) for every calendar month
// between the earliest and latest shipped date, inclusive. An empty item
// set yields no baselines and no history.
func (p *Pipeline) synthesizeCostHistory(items []ledger.OrderItem) ([]ledger.ProductCostBaseline, []ledger.ProductCostHistory) {
	if len(items) == 0 {
		return nil, nil
	}

	type priceAgg struct {
		sum   decimal.Decimal
		count int64
	}
	aggregates := make(map[string]*priceAgg)
	productOrder := make([]string, 0)

	minShipped := items[0].ShippedDate
	maxShipped := items[0].ShippedDate
	for _, item := range items {
		agg, ok := aggregates[item.ProductID]
		if !ok {
			aggregates[item.ProductID] = &priceAgg{sum: item.UnitPrice, count: 1}
			productOrder = append(productOrder, item.ProductID)
		} else {
			agg.sum = agg.sum.Add(item.UnitPrice)
			agg.count++
		}
		if item.ShippedDate.Before(minShipped) {
			minShipped = item.ShippedDate
		}
		if item.ShippedDate.After(maxShipped) {
			maxShipped = item.ShippedDate
		}
	}

	baselines := make([]ledger.ProductCostBaseline, 0, len(productOrder))
	for _, productID := range productOrder {
		agg := aggregates[productID]
		avgPrice := agg.sum.Div(decimal.NewFromInt(agg.count))
		fraction := p.src.Uniform("base-cost:"+productID, p.sim.CostFractionLow, p.sim.CostFractionHigh)
		baselines = append(baselines, ledger.ProductCostBaseline{
			ProductID: productID,
			AvgPrice:  avgPrice,
			BaseCost:  avgPrice.Mul(decimal.NewFromFloat(fraction)),
		})
	}

	months := monthRange(minShipped, maxShipped)
	minCost := decimal.NewFromFloat(p.sim.MinUnitCost)

	history := make([]ledger.ProductCostHistory, 0, len(baselines)*len(months))
	for _, baseline := range baselines {
		for _, month := range months {
			key := "cost-drift:" + baseline.ProductID + ":" + month.Format(monthKeyLayout)
			drift := p.src.Uniform(key, -p.sim.CostDriftBound, p.sim.CostDriftBound)
			cost := baseline.BaseCost.Mul(decimal.NewFromFloat(1 + drift))
			if cost.LessThan(minCost) {
				cost = minCost
			}
			history = append(history, ledger.ProductCostHistory{
				ProductID:  baseline.ProductID,
				MonthStart: month,
				UnitCost:   cost,
				Source:     enums.CostSourceSimulated,
			})
		}
	}

	return baselines, history
}

// monthRange lists every month start from lo's month to hi's month inclusive.
func monthRange(lo, hi time.Time) []time.Time {
	start := ledger.MonthStart(lo)
	end := ledger.MonthStart(hi)

	months := make([]time.Time, 0)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		months = append(months, cur)
	}
	return months
}

func buildCostLookup(history []ledger.ProductCostHistory) map[costKey]decimal.Decimal {
	lookup := make(map[costKey]decimal.Decimal, len(history))
	for _, row := range history {
		lookup[costKey{productID: row.ProductID, month: row.MonthStart}] = row.UnitCost
	}
	return lookup
}
