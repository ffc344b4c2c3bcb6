package enrich

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/config"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/logger"
)

func testSimulation(seed int64) config.SimulationConfig {
	return config.SimulationConfig{
		Seed:              seed,
		HighRateCountries: []string{"Norway", "Denmark"},
		CostFractionLow:   0.55,
		CostFractionHigh:  0.85,
		CostDriftBound:    0.03,
		MinUnitCost:       0.01,
		FallbackCostRatio: 0.7,
		HighRateLow:       0.05,
		HighRateHigh:      0.12,
		BaseRateLow:       0.01,
		BaseRateHigh:      0.04,
		LagDaysMin:        1,
		LagDaysMax:        7,
		OnlineShare:       0.85,
		DiscountShare:     0.35,
		DiscountRateLow:   0.02,
		DiscountRateHigh:  0.35,
	}
}

func newTestPipeline(t *testing.T, seed int64) *Pipeline {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	p, err := NewPipeline(testSimulation(seed), logg, nil)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	return p
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func saleItem(id int64, orderID, productID string, qty int64, price string, discount string, shipped time.Time) ledger.OrderItem {
	return ledger.OrderItem{
		OrderItemID:        id,
		OrderID:            orderID,
		CustomerID:         "c-1",
		ProductID:          productID,
		Quantity:           qty,
		UnitPrice:          dec(price),
		LineDiscountAmount: dec(discount),
		OrderDate:          shipped.AddDate(0, 0, -2),
		ShippedDate:        shipped,
		ShippingCountry:    "France",
	}
}

func orderFor(items []ledger.OrderItem, country string) ledger.Order {
	first := items[0]
	return ledger.Order{
		OrderID:         first.OrderID,
		CustomerID:      first.CustomerID,
		OrderDate:       first.OrderDate,
		ShippedDate:     first.ShippedDate,
		ShippingCountry: country,
		OrderLineCount:  len(items),
	}
}
