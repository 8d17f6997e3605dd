package enums

// NotificationKind labels why a notification was produced.
type NotificationKind string

const (
	NotificationKindPaymentSettled NotificationKind = "payment_settled"
	NotificationKindOrderCreated   NotificationKind = "order_created"
)

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}
