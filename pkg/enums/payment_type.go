package enums

// PaymentType identifies the economic owner a payment settles.
type PaymentType string

const (
	PaymentTypeAdmin    PaymentType = "ADMIN"
	PaymentTypeSupplier PaymentType = "SUPPLIER"
)

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeAdmin || p == PaymentTypeSupplier
}
