package entity

// Role decides how a character consumes the shared input stream.
type Role int

const (
	// RoleDriver moves directly from input.
	RoleDriver Role = iota
	// RoleMirror follows the driver with the X axis negated while
	// mirroring is enabled.
	RoleMirror
)

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case RoleDriver:
		return "Driver"
	case RoleMirror:
		return "Mirror"
	default:
		return "Unknown"
	}
}

// Swapped returns the opposite role.
func (r Role) Swapped() Role {
	if r == RoleDriver {
		return RoleMirror
	}
	return RoleDriver
}
