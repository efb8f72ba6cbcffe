package users

type Role string

const (
	// RolePassenger is the default role for self-service booking.
	RolePassenger Role = "PASSENGER"
	// RoleStaff can book on behalf of passengers at a terminal.
	RoleStaff Role = "STAFF"
	// RoleAdmin can cancel paid bookings and see every booking.
	RoleAdmin Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

// IsValidRole reports whether the string names a known role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RolePassenger, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may override passenger-level
// restrictions such as the paid-booking cancellation guard.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

// CanOperateForOthers reports whether the role may act on bookings it does
// not own, such as booking at a terminal on behalf of a passenger.
func (r Role) CanOperateForOthers() bool {
	return r == RoleStaff || r == RoleAdmin
}
