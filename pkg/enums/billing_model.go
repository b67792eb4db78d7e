package enums

import "fmt"

// BillingModel is the agreed unit of charging between a supplier connection
// and the platform.
type BillingModel string

const (
	BillingPerSubmitted BillingModel = "Per Submitted"
	BillingPerDelivered BillingModel = "Per Delivered"
)

var validBillingModels = []BillingModel{
	BillingPerSubmitted,
	BillingPerDelivered,
}

// String implements fmt.Stringer.
func (m BillingModel) String() string {
	return string(m)
}

// IsValid reports whether the value is a known BillingModel.
func (m BillingModel) IsValid() bool {
	for _, candidate := range validBillingModels {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseBillingModel converts raw input into a BillingModel.
func ParseBillingModel(value string) (BillingModel, error) {
	for _, candidate := range validBillingModels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid billing model %q", value)
}
