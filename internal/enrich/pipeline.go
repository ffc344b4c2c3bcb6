// Package enrich implements the financial enrichment pipeline: cost
// history synthesis, per-item metric derivation, shipping cost allocation
// and profitability finalization, as a single linear pass over an
// immutable in-memory ledger.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/config"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/logger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/metrics"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/simrand"
)

const (
	stageCostHistory   = "cost-history"
	stageItemMetrics   = "item-metrics"
	stageShipping      = "shipping-allocation"
	stageProfitability = "profitability"
)

// Result carries the three output tables of one pipeline run.
type Result struct {
	Orders      []ledger.EnrichedOrder
	Items       []ledger.EnrichedOrderItem
	CostHistory []ledger.ProductCostHistory
}

// Pipeline runs the enrichment stages with deterministic keyed draws.
type Pipeline struct {
	sim      config.SimulationConfig
	highRate map[string]struct{}
	src      *simrand.Source
	logg     *logger.Logger
	metrics  *metrics.PipelineMetrics
}

// NewPipeline builds a pipeline for one seed. Metrics may be nil.
func NewPipeline(sim config.SimulationConfig, logg *logger.Logger, m *metrics.PipelineMetrics) (*Pipeline, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	highRate := make(map[string]struct{}, len(sim.HighRateCountries))
	for _, country := range sim.HighRateCountries {
		highRate[country] = struct{}{}
	}

	return &Pipeline{
		sim:      sim,
		highRate: highRate,
		src:      simrand.New(sim.Seed),
		logg:     logg,
		metrics:  m,
	}, nil
}

// Run executes the four stages over the full ledger. Each stage reads one
// immutable table version and produces a new one; the only error source
// is context cancellation, since every row-level anomaly resolves to a
// defined default.
func (p *Pipeline) Run(ctx context.Context, orders []ledger.Order, items []ledger.OrderItem) (*Result, error) {
	runCtx := p.logg.WithFields(ctx, map[string]any{
		"orders": len(orders),
		"items":  len(items),
		"seed":   p.sim.Seed,
	})
	p.logg.Info(runCtx, "starting enrichment run")

	_, history, err := p.runCostHistory(runCtx, items)
	if err != nil {
		return p.fail(err)
	}

	enrichedItems, err := p.runItemMetrics(runCtx, items, history)
	if err != nil {
		return p.fail(err)
	}

	enrichedOrders, enrichedItems, err := p.runShipping(runCtx, orders, enrichedItems)
	if err != nil {
		return p.fail(err)
	}

	enrichedItems, err = p.runProfitability(runCtx, enrichedItems)
	if err != nil {
		return p.fail(err)
	}

	p.metrics.AddRows("orders", len(enrichedOrders))
	p.metrics.AddRows("order_items", len(enrichedItems))
	p.metrics.AddRows("product_cost_history", len(history))
	p.metrics.IncSuccess()
	p.logg.Info(runCtx, "enrichment run completed")

	return &Result{
		Orders:      enrichedOrders,
		Items:       enrichedItems,
		CostHistory: history,
	}, nil
}

func (p *Pipeline) runCostHistory(ctx context.Context, items []ledger.OrderItem) ([]ledger.ProductCostBaseline, []ledger.ProductCostHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	baselines, history := p.synthesizeCostHistory(items)
	p.observeStage(ctx, stageCostHistory, start, len(history))
	return baselines, history, nil
}

func (p *Pipeline) runItemMetrics(ctx context.Context, items []ledger.OrderItem, history []ledger.ProductCostHistory) ([]ledger.EnrichedOrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	enriched := p.deriveItemMetrics(items, buildCostLookup(history))
	p.observeStage(ctx, stageItemMetrics, start, len(enriched))
	return enriched, nil
}

func (p *Pipeline) runShipping(ctx context.Context, orders []ledger.Order, items []ledger.EnrichedOrderItem) ([]ledger.EnrichedOrder, []ledger.EnrichedOrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	enrichedOrders, enrichedItems := p.allocateShipping(orders, items)
	p.observeStage(ctx, stageShipping, start, len(enrichedOrders))
	return enrichedOrders, enrichedItems, nil
}

func (p *Pipeline) runProfitability(ctx context.Context, items []ledger.EnrichedOrderItem) ([]ledger.EnrichedOrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	finalized := finalizeProfitability(items)
	p.observeStage(ctx, stageProfitability, start, len(finalized))
	return finalized, nil
}

// finalizeProfitability computes contribution margin from the already
// derived columns. No rounding happens here; presentation rounding is a
// downstream concern.
func finalizeProfitability(items []ledger.EnrichedOrderItem) []ledger.EnrichedOrderItem {
	finalized := make([]ledger.EnrichedOrderItem, len(items))
	copy(finalized, items)
	for i := range finalized {
		item := &finalized[i]
		item.ContributionMargin = item.NetItemRevenue.
			Sub(item.ItemCOGS).
			Sub(item.AllocatedShipping)
	}
	return finalized
}

func (p *Pipeline) observeStage(ctx context.Context, stage string, start time.Time, rows int) {
	elapsed := time.Since(start)
	p.metrics.ObserveStage(stage, elapsed)
	stageCtx := p.logg.WithFields(ctx, map[string]any{
		"stage":       stage,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	p.logg.Debug(stageCtx, "stage completed")
}

func (p *Pipeline) fail(err error) (*Result, error) {
	p.metrics.IncFailure()
	return nil, err
}
