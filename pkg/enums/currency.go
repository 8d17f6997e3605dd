package enums

// Currency represents the settlement denomination. The platform is single
// currency today.
type Currency string

const (
	CurrencyCAD Currency = "cad"
)

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}
