package enums

import "fmt"

// CostSource records where a product cost figure came from. Today every
// cost is simulated; the enum leaves room for a real procurement feed.
type CostSource string

const (
	CostSourceSimulated CostSource = "simulated"
)

var validCostSources = []CostSource{
	CostSourceSimulated,
}

// String implements fmt.Stringer.
func (s CostSource) String() string {
	return string(s)
}

// IsValid reports whether the cost source is recognized.
func (s CostSource) IsValid() bool {
	for _, candidate := range validCostSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCostSource converts a raw string into a CostSource.
func ParseCostSource(value string) (CostSource, error) {
	for _, candidate := range validCostSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cost source %q", value)
}
