package enum

// Role represents a user's role within a business
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleViewer   Role = "viewer"
)

// Valid reports whether the role is a known business role
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// InvitationStatus represents the lifecycle of a business invitation
type InvitationStatus string

const (
	InvitationStatusPending   InvitationStatus = "pending"
	InvitationStatusAccepted  InvitationStatus = "accepted"
	InvitationStatusCancelled InvitationStatus = "cancelled"
	InvitationStatusExpired   InvitationStatus = "expired"
)

func (s InvitationStatus) String() string {
	return string(s)
}
