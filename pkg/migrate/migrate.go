package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/retail-margin-pipeline/pkg/enums"
)

const DefaultDir = "pkg/migrate/migrations"

// DialectFor maps a warehouse driver to the goose dialect name.
func DialectFor(driver enums.WarehouseDriver) (string, error) {
	switch driver {
	case enums.WarehouseDriverSQLite:
		return "sqlite3", nil
	case enums.WarehouseDriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("no goose dialect for driver %q", driver)
	}
}

// Run executes a goose command against the warehouse.
func Run(ctx context.Context, db *sql.DB, driver enums.WarehouseDriver, dir string, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	dialect, err := DialectFor(driver)
	if err != nil {
		return err
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// RunContext prints status output to stdout (goose internal)
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
