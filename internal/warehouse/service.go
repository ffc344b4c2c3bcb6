// Package warehouse persists the enriched tables into the configured
// relational store for the downstream reporting consumer.
package warehouse

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retail-margin-pipeline/pkg/errors"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service loads pipeline output into the warehouse.
type Service struct {
	db        txRunner
	logg      *logger.Logger
	batchSize int
}

// New builds a warehouse loader. batchSize bounds each INSERT.
func New(db txRunner, logg *logger.Logger, batchSize int) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &Service{db: db, logg: logg, batchSize: batchSize}, nil
}

// Load replaces the three warehouse tables with the given run's output.
// The whole load runs in one transaction: either every table lands or
// none does.
func (s *Service) Load(ctx context.Context, orders []ledger.EnrichedOrder, items []ledger.EnrichedOrderItem, history []ledger.ProductCostHistory) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.EnrichedOrderItem{},
			&models.EnrichedOrder{},
			&models.ProductCostHistory{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clearing table: %w", err)
			}
		}

		if len(orders) > 0 {
			if err := tx.CreateInBatches(orderRows(orders), s.batchSize).Error; err != nil {
				return fmt.Errorf("inserting orders: %w", err)
			}
		}
		if len(items) > 0 {
			if err := tx.CreateInBatches(itemRows(items), s.batchSize).Error; err != nil {
				return fmt.Errorf("inserting order items: %w", err)
			}
		}
		if len(history) > 0 {
			if err := tx.CreateInBatches(historyRows(history), s.batchSize).Error; err != nil {
				return fmt.Errorf("inserting cost history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading warehouse")
	}

	loadCtx := s.logg.WithFields(ctx, map[string]any{
		"orders":       len(orders),
		"order_items":  len(items),
		"cost_history": len(history),
	})
	s.logg.Info(loadCtx, "warehouse load completed")
	return nil
}

func orderRows(orders []ledger.EnrichedOrder) []models.EnrichedOrder {
	rows := make([]models.EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, models.EnrichedOrder{
			OrderID:           o.OrderID,
			CustomerID:        o.CustomerID,
			OrderDate:         o.OrderDate,
			ShippedDate:       o.ShippedDate,
			ShippingCountry:   o.ShippingCountry,
			Channel:           o.Channel,
			OrderLineCount:    o.OrderLineCount,
			ShipRate:          o.ShipRate,
			OrderNet:          o.OrderNet,
			ShippingCostOrder: o.ShippingCostOrder,
		})
	}
	return rows
}

func itemRows(items []ledger.EnrichedOrderItem) []models.EnrichedOrderItem {
	rows := make([]models.EnrichedOrderItem, 0, len(items))
	for _, it := range items {
		isReturn := 0
		if it.IsReturn {
			isReturn = 1
		}
		rows = append(rows, models.EnrichedOrderItem{
			OrderItemID:        it.OrderItemID,
			OrderID:            it.OrderID,
			CustomerID:         it.CustomerID,
			ProductID:          it.ProductID,
			ProductDescription: it.ProductDescription,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			LineDiscountAmount: it.LineDiscountAmount,
			OrderDate:          it.OrderDate,
			ShippedDate:        it.ShippedDate,
			ShippingCountry:    it.ShippingCountry,
			Channel:            it.Channel,
			IsReturn:           isReturn,
			TransactionType:    it.TransactionType,
			GrossItemRevenue:   it.GrossItemRevenue,
			NetItemRevenue:     it.NetItemRevenue,
			UnitCost:           it.UnitCost,
			ItemCOGS:           it.ItemCOGS,
			AllocatedShipping:  it.AllocatedShipping,
			ReturnAmount:       it.ReturnAmount,
			ContributionMargin: it.ContributionMargin,
		})
	}
	return rows
}

func historyRows(history []ledger.ProductCostHistory) []models.ProductCostHistory {
	rows := make([]models.ProductCostHistory, 0, len(history))
	for _, h := range history {
		rows = append(rows, models.ProductCostHistory{
			ProductID:  h.ProductID,
			MonthStart: h.MonthStart,
			UnitCost:   h.UnitCost,
			Source:     h.Source,
		})
	}
	return rows
}
