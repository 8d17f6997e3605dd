package enums

// UserRole distinguishes platform operators from marketplace participants.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleSupplier UserRole = "supplier"
	UserRoleCustomer UserRole = "customer"
)

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	switch u {
	case UserRoleAdmin, UserRoleSupplier, UserRoleCustomer:
		return true
	}
	return false
}
