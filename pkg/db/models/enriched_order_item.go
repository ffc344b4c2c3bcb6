package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

// EnrichedOrderItem is the warehouse row for the order_items table. The
// signed columns (gross/net revenue, COGS) keep the ledger's conventions:
// return lines carry negative quantity and therefore negative revenue and
// COGS, so naive SUM() aggregations net out correctly downstream.
type EnrichedOrderItem struct {
	OrderItemID        int64                 `gorm:"column:order_item_id;primaryKey"`
	OrderID            string                `gorm:"column:order_id;not null;index:idx_items_order_id"`
	CustomerID         string                `gorm:"column:customer_id;not null"`
	ProductID          string                `gorm:"column:product_id;not null;index:idx_items_product"`
	ProductDescription string                `gorm:"column:product_description"`
	Quantity           int64                 `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal       `gorm:"column:unit_price;type:numeric(14,4);not null"`
	LineDiscountAmount decimal.Decimal       `gorm:"column:line_discount_amount;type:numeric(14,4);not null"`
	OrderDate          time.Time             `gorm:"column:order_date;not null"`
	ShippedDate        time.Time             `gorm:"column:shipped_date;not null;index:idx_items_shipdate"`
	ShippingCountry    string                `gorm:"column:shipping_country;not null;index:idx_items_country"`
	Channel            enums.Channel         `gorm:"column:channel;not null"`
	IsReturn           int                   `gorm:"column:is_return;not null"`
	TransactionType    enums.TransactionType `gorm:"column:transaction_type;not null"`
	GrossItemRevenue   decimal.Decimal       `gorm:"column:gross_item_revenue;type:numeric(14,4);not null"`
	NetItemRevenue     decimal.Decimal       `gorm:"column:net_item_revenue;type:numeric(14,4);not null"`
	UnitCost           decimal.Decimal       `gorm:"column:unit_cost;type:numeric(14,6);not null"`
	ItemCOGS           decimal.Decimal       `gorm:"column:item_cogs;type:numeric(14,4);not null"`
	AllocatedShipping  decimal.Decimal       `gorm:"column:allocated_shipping_cost_item;type:numeric(14,6);not null"`
	ReturnAmount       decimal.Decimal       `gorm:"column:return_amount;type:numeric(14,4);not null"`
	ContributionMargin decimal.Decimal       `gorm:"column:contribution_margin;type:numeric(14,6);not null"`
}

// TableName keeps the name the downstream SQL expects.
func (EnrichedOrderItem) TableName() string {
	return "order_items"
}
