package enums

import "fmt"

// TransactionType classifies a line item as a sale or a return.
type TransactionType string

const (
	TransactionTypeSale   TransactionType = "sale"
	TransactionTypeReturn TransactionType = "return"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeSale,
	TransactionTypeReturn,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the transaction type is recognized.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts a raw string into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
