package enums

// StockKind names the counter a resolved line item decrements. Exactly one
// kind applies per line item.
type StockKind string

const (
	StockKindRetail          StockKind = "retail"
	StockKindVariant         StockKind = "variant"
	StockKindWholesaleCase   StockKind = "wholesale_case"
	StockKindWholesalePallet StockKind = "wholesale_pallet"
	StockKindFastMoving      StockKind = "fast_moving"
)

// String implements fmt.Stringer.
func (s StockKind) String() string {
	return string(s)
}
