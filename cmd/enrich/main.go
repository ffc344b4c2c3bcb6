package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/angelmondragon/retail-margin-pipeline/internal/enrich"
	"github.com/angelmondragon/retail-margin-pipeline/internal/ledger"
	"github.com/angelmondragon/retail-margin-pipeline/internal/warehouse"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/config"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/db"
	pkgerrors "github.com/angelmondragon/retail-margin-pipeline/pkg/errors"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/logger"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/metrics"
	"github.com/angelmondragon/retail-margin-pipeline/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "enrich"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(pkgerrors.MetadataFor(pkgerrors.CodeConfig).ExitCode)
	}

	logg = logger.New(logger.Options{
		ServiceName: "enrich",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = logg.WithRunID(ctx, uuid.NewString())
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "enrichment run failed", err)
		os.Exit(pkgerrors.ExitCodeOf(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.NewRegistry())

	pipeline, err := enrich.NewPipeline(cfg.Simulation, logg, pipelineMetrics)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building pipeline")
	}

	orders, err := ledger.ReadOrders(cfg.Ledger.OrdersCSV)
	if err != nil {
		return err
	}
	items, err := ledger.ReadOrderItems(cfg.Ledger.ItemsCSV)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx, orders, items)
	if err != nil {
		return err
	}

	writeErr := multierr.Combine(
		ledger.WriteEnrichedOrders(cfg.Output.OrdersCSV, result.Orders),
		ledger.WriteEnrichedOrderItems(cfg.Output.ItemsCSV, result.Items),
		ledger.WriteCostHistory(cfg.Output.CostHistoryCSV, result.CostHistory),
	)
	if writeErr != nil {
		return writeErr
	}
	logg.Info(ctx, "enriched tables written")

	if !cfg.Warehouse.Enabled {
		return nil
	}
	return loadWarehouse(ctx, cfg, logg, result)
}

func loadWarehouse(ctx context.Context, cfg *config.Config, logg *logger.Logger, result *enrich.Result) error {
	dbClient, err := db.New(ctx, cfg.Warehouse, logg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bootstrapping warehouse")
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing warehouse", err)
		}
	}()

	if err := migrate.MaybeAutoRun(ctx, cfg, logg, dbClient); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrating warehouse")
	}

	sink, err := warehouse.New(dbClient, logg, cfg.Warehouse.BatchSize)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building warehouse loader")
	}
	return sink.Load(ctx, result.Orders, result.Items, result.CostHistory)
}
