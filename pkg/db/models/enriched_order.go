package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

// EnrichedOrder is the warehouse row for the orders table, order aggregates
// plus the shipping charge fields the reporting layer sums over.
type EnrichedOrder struct {
	OrderID           string          `gorm:"column:order_id;primaryKey"`
	CustomerID        string          `gorm:"column:customer_id;not null"`
	OrderDate         time.Time       `gorm:"column:order_date;not null"`
	ShippedDate       time.Time       `gorm:"column:shipped_date;not null"`
	ShippingCountry   string          `gorm:"column:shipping_country;not null"`
	Channel           enums.Channel   `gorm:"column:channel;not null"`
	OrderLineCount    int             `gorm:"column:order_line_count;not null"`
	ShipRate          decimal.Decimal `gorm:"column:ship_rate;type:numeric(12,6);not null"`
	OrderNet          decimal.Decimal `gorm:"column:order_net;type:numeric(14,4);not null"`
	ShippingCostOrder decimal.Decimal `gorm:"column:shipping_cost_order;type:numeric(14,4);not null"`
}

// TableName keeps the name the downstream SQL expects.
func (EnrichedOrder) TableName() string {
	return "orders"
}
