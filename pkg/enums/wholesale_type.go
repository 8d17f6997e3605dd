package enums

import "fmt"

// WholesaleType is the closed tag discriminating wholesale listing layouts.
type WholesaleType string

const (
	WholesaleTypeCase       WholesaleType = "case"
	WholesaleTypePallet     WholesaleType = "pallet"
	WholesaleTypeFastMoving WholesaleType = "fastMoving"
)

var validWholesaleTypes = []WholesaleType{
	WholesaleTypeCase,
	WholesaleTypePallet,
	WholesaleTypeFastMoving,
}

// String implements fmt.Stringer.
func (w WholesaleType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WholesaleType.
func (w WholesaleType) IsValid() bool {
	for _, candidate := range validWholesaleTypes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWholesaleType converts raw input into a WholesaleType.
func ParseWholesaleType(value string) (WholesaleType, error) {
	for _, candidate := range validWholesaleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wholesale type %q", value)
}
