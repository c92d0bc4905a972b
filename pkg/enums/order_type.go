package enums

import "fmt"

// OrderType identifies how an order moves parts between purchasing,
// factory storage, machines, and projects.
type OrderType string

const (
	OrderTypePFM OrderType = "purchase_for_machine"
	OrderTypePFS OrderType = "purchase_for_storage"
	OrderTypeSTM OrderType = "storage_to_machine"
	OrderTypePFP OrderType = "purchase_for_project"
	OrderTypeSTP OrderType = "storage_to_project"
)

var validOrderTypes = []OrderType{
	OrderTypePFM,
	OrderTypePFS,
	OrderTypeSTM,
	OrderTypePFP,
	OrderTypeSTP,
}

// String implements fmt.Stringer.
func (o OrderType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderType.
func (o OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsMachineAffecting reports whether orders of this type reconcile machine pools.
func (o OrderType) IsMachineAffecting() bool {
	return o == OrderTypePFM || o == OrderTypeSTM
}

// IsStorageSourced reports whether orders of this type draw down a source factory's storage.
func (o OrderType) IsStorageSourced() bool {
	return o == OrderTypeSTM || o == OrderTypeSTP
}

// ParseOrderType converts raw input into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	for _, candidate := range validOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order type %q", value)
}
