package domain

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether the role is one of the two accepted variants.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an account known to the ledger.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         Role
	Image        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// TransactionCount is derived on list queries, never stored.
	TransactionCount int64
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   string
	Role Role
}

// UserPatch carries a partial update over the admin-editable user fields.
// Phone supplied as null or empty clears the stored value; Phone absent
// leaves it untouched.
type UserPatch struct {
	Name  Optional[string]
	Phone Optional[string]
	Role  Optional[Role]
}
