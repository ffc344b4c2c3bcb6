package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

const EnvPrefix = "RETAIL"

// Environment variable names referenced by tests and docs.
const (
	EnvAppEnv          = "RETAIL_APP_ENV"
	EnvLogLevel        = "RETAIL_LOG_LEVEL"
	EnvSimulationSeed  = "RETAIL_SIMULATION_SEED"
	EnvWarehouseDriver = "RETAIL_WAREHOUSE_DRIVER"
	EnvWarehouseDSN    = "RETAIL_WAREHOUSE_DSN"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App        AppConfig
	Ledger     LedgerConfig
	Output     OutputConfig
	Simulation SimulationConfig
	Warehouse  WarehouseConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate rejects configurations the pipeline cannot honor, e.g. inverted
// draw bounds or an unknown warehouse driver.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if _, err := enums.ParseWarehouseDriver(c.Warehouse.Driver); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAIL_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"RETAIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// LedgerConfig locates the two normalized input tables.
type LedgerConfig struct {
	OrdersCSV string `envconfig:"RETAIL_LEDGER_ORDERS_CSV" default:"orders.csv"`
	ItemsCSV  string `envconfig:"RETAIL_LEDGER_ITEMS_CSV" default:"order_items.csv"`
}

// OutputConfig locates the three emitted tables.
type OutputConfig struct {
	OrdersCSV      string `envconfig:"RETAIL_OUTPUT_ORDERS_CSV" default:"orders_enriched.csv"`
	ItemsCSV       string `envconfig:"RETAIL_OUTPUT_ITEMS_CSV" default:"order_items_enriched.csv"`
	CostHistoryCSV string `envconfig:"RETAIL_OUTPUT_COST_HISTORY_CSV" default:"product_cost_history.csv"`
}

// SimulationConfig carries the seed and every draw bound used by the
// cost, shipping and upstream ledger simulations.
type SimulationConfig struct {
	Seed int64 `envconfig:"RETAIL_SIMULATION_SEED" default:"1"`

	HighRateCountries []string `envconfig:"RETAIL_SIMULATION_HIGH_RATE_COUNTRIES" default:"Norway,Denmark"`

	CostFractionLow   float64 `envconfig:"RETAIL_SIMULATION_COST_FRACTION_LOW" default:"0.55" validate:"gt=0"`
	CostFractionHigh  float64 `envconfig:"RETAIL_SIMULATION_COST_FRACTION_HIGH" default:"0.85" validate:"gtfield=CostFractionLow,lte=1"`
	CostDriftBound    float64 `envconfig:"RETAIL_SIMULATION_COST_DRIFT_BOUND" default:"0.03" validate:"gte=0,lt=1"`
	MinUnitCost       float64 `envconfig:"RETAIL_SIMULATION_MIN_UNIT_COST" default:"0.01" validate:"gt=0"`
	FallbackCostRatio float64 `envconfig:"RETAIL_SIMULATION_FALLBACK_COST_RATIO" default:"0.7" validate:"gt=0"`

	HighRateLow  float64 `envconfig:"RETAIL_SIMULATION_HIGH_RATE_LOW" default:"0.05" validate:"gt=0"`
	HighRateHigh float64 `envconfig:"RETAIL_SIMULATION_HIGH_RATE_HIGH" default:"0.12" validate:"gtfield=HighRateLow"`
	BaseRateLow  float64 `envconfig:"RETAIL_SIMULATION_BASE_RATE_LOW" default:"0.01" validate:"gt=0"`
	BaseRateHigh float64 `envconfig:"RETAIL_SIMULATION_BASE_RATE_HIGH" default:"0.04" validate:"gtfield=BaseRateLow"`

	LagDaysMin       int     `envconfig:"RETAIL_SIMULATION_LAG_DAYS_MIN" default:"1" validate:"gte=0"`
	LagDaysMax       int     `envconfig:"RETAIL_SIMULATION_LAG_DAYS_MAX" default:"7" validate:"gtefield=LagDaysMin"`
	OnlineShare      float64 `envconfig:"RETAIL_SIMULATION_ONLINE_SHARE" default:"0.85" validate:"gte=0,lte=1"`
	DiscountShare    float64 `envconfig:"RETAIL_SIMULATION_DISCOUNT_SHARE" default:"0.35" validate:"gte=0,lte=1"`
	DiscountRateLow  float64 `envconfig:"RETAIL_SIMULATION_DISCOUNT_RATE_LOW" default:"0.02" validate:"gte=0"`
	DiscountRateHigh float64 `envconfig:"RETAIL_SIMULATION_DISCOUNT_RATE_HIGH" default:"0.35" validate:"gtfield=DiscountRateLow,lte=1"`
}

// WarehouseConfig controls the optional relational sink.
type WarehouseConfig struct {
	Enabled     bool   `envconfig:"RETAIL_WAREHOUSE_ENABLED" default:"true"`
	Driver      string `envconfig:"RETAIL_WAREHOUSE_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"RETAIL_WAREHOUSE_DSN" default:"retail.db"`
	AutoMigrate bool   `envconfig:"RETAIL_WAREHOUSE_AUTO_MIGRATE" default:"true"`
	BatchSize   int    `envconfig:"RETAIL_WAREHOUSE_BATCH_SIZE" default:"500" validate:"gt=0"`

	MaxOpenConns int `envconfig:"RETAIL_WAREHOUSE_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int `envconfig:"RETAIL_WAREHOUSE_MAX_IDLE_CONNS" default:"5"`
}

// DriverEnum returns the parsed warehouse driver. Validate guarantees it
// parses, so the zero value only appears on unvalidated configs.
func (w WarehouseConfig) DriverEnum() enums.WarehouseDriver {
	driver, err := enums.ParseWarehouseDriver(w.Driver)
	if err != nil {
		return ""
	}
	return driver
}
