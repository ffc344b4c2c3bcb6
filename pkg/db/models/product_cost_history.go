package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

// ProductCostHistory is the warehouse row for the simulated monthly unit
// cost series, one row per (product_id, month_start).
type ProductCostHistory struct {
	ProductID  string           `gorm:"column:product_id;primaryKey"`
	MonthStart time.Time        `gorm:"column:month_start;primaryKey"`
	UnitCost   decimal.Decimal  `gorm:"column:unit_cost;type:numeric(14,6);not null"`
	Source     enums.CostSource `gorm:"column:source;not null"`
}

// TableName keeps the name the downstream SQL expects.
func (ProductCostHistory) TableName() string {
	return "product_cost_history"
}
