package domain

import "time"

// Role of an account. Roles are fixed at registration; there is no promotion
// flow.
type Role string

const (
	RoleUser     Role = "USER"
	RoleMerchant Role = "MERCHANT"
	RoleAdmin    Role = "ADMIN"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleMerchant, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        int64
	Username  string
	Password  string // opaque credential, compared by the auth collaborator
	Role      Role
	CreatedAt time.Time
}

// Identity is the server-verified (user, role) pair produced by
// authentication. It is the only caller identity the guard trusts; client-held
// ids or roles are never used for authorization.
type Identity struct {
	UserID int64
	Role   Role
}

// Anonymous is the identity of an unauthenticated public visitor.
var Anonymous = Identity{UserID: 0, Role: RoleUser}
