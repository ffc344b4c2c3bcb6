package enums

import "fmt"

// WarehouseDriver selects the database backing the enriched tables.
type WarehouseDriver string

const (
	WarehouseDriverSQLite   WarehouseDriver = "sqlite"
	WarehouseDriverPostgres WarehouseDriver = "postgres"
)

var validWarehouseDrivers = []WarehouseDriver{
	WarehouseDriverSQLite,
	WarehouseDriverPostgres,
}

// String implements fmt.Stringer.
func (d WarehouseDriver) String() string {
	return string(d)
}

// IsValid reports whether the driver is recognized.
func (d WarehouseDriver) IsValid() bool {
	for _, candidate := range validWarehouseDrivers {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseWarehouseDriver converts a raw string into a WarehouseDriver.
func ParseWarehouseDriver(value string) (WarehouseDriver, error) {
	for _, candidate := range validWarehouseDrivers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warehouse driver %q", value)
}
