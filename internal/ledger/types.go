// Package ledger holds the immutable value records flowing through the
// enrichment pipeline: the two normalized input tables, the flat upstream
// records they are built from, and the three enriched output tables.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

// FlatRecord is one raw transaction row before normalization.
type FlatRecord struct {
	OrderID            string
	CustomerID         string
	ProductID          string
	ProductDescription string
	Quantity           int64
	UnitPrice          decimal.Decimal
	OrderDate          time.Time
	ShippingCountry    string
}

// Order is one row of the normalized orders table, aggregated from its items.
type Order struct {
	OrderID         string
	CustomerID      string
	OrderDate       time.Time
	ShippedDate     time.Time
	ShippingCountry string
	Channel         enums.Channel
	OrderLineCount  int
}

// OrderItem is one line item, the atomic unit of revenue and cost
// computation. Negative quantity marks a return; LineDiscountAmount is
// stored non-positive and only ever populated on sale lines.
type OrderItem struct {
	OrderItemID        int64
	OrderID            string
	CustomerID         string
	ProductID          string
	ProductDescription string
	Quantity           int64
	UnitPrice          decimal.Decimal
	LineDiscountAmount decimal.Decimal
	OrderDate          time.Time
	ShippedDate        time.Time
	ShippingCountry    string
	Channel            enums.Channel
}

// IsReturn reports whether the line reverses a sale.
func (i OrderItem) IsReturn() bool {
	return i.Quantity < 0
}

// ProductCostBaseline is the per-product anchor the monthly cost series
// drifts around.
type ProductCostBaseline struct {
	ProductID string
	AvgPrice  decimal.Decimal
	BaseCost  decimal.Decimal
}

// ProductCostHistory is one simulated unit cost for a product in a
// calendar month. MonthStart is always the first of the month, UTC.
type ProductCostHistory struct {
	ProductID  string
	MonthStart time.Time
	UnitCost   decimal.Decimal
	Source     enums.CostSource
}

// EnrichedOrderItem extends OrderItem with the derived financial metrics.
// Signs follow quantity: a return line carries negative gross/net revenue
// and negative COGS, reversing the original sale's contribution.
type EnrichedOrderItem struct {
	OrderItem

	IsReturn           bool
	TransactionType    enums.TransactionType
	GrossItemRevenue   decimal.Decimal
	NetItemRevenue     decimal.Decimal
	UnitCost           decimal.Decimal
	ItemCOGS           decimal.Decimal
	AllocatedShipping  decimal.Decimal
	ReturnAmount       decimal.Decimal
	ContributionMargin decimal.Decimal
}

// EnrichedOrder extends Order with the order-level shipping charge fields.
type EnrichedOrder struct {
	Order

	ShipRate          decimal.Decimal
	OrderNet          decimal.Decimal
	ShippingCostOrder decimal.Decimal
}

// MonthStart truncates a timestamp to the first instant of its calendar
// month in UTC. It is the join key between items and the cost history.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}
