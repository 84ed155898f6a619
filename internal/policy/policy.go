// Package policy holds the access decisions for the ledger in one place.
// Every handler and service delegates here instead of re-deriving role
// checks, so the rules cannot drift between call sites.
package policy

import "ledger-board/internal/domain"

// CanManageTransactions reports whether the principal may create, update or
// delete ledger entries.
func CanManageTransactions(p domain.Principal) bool {
	return p.Role == domain.RoleAdmin
}

// CanViewTransactions reports whether the principal may read the ledger.
// Any authenticated principal qualifies.
func CanViewTransactions(p domain.Principal) bool {
	return p.ID != ""
}

// CanManageUsers reports whether the principal may list, update or delete
// user accounts.
func CanManageUsers(p domain.Principal) bool {
	return p.Role == domain.RoleAdmin
}

// CanDeleteUser reports whether the principal may delete the target user.
// An administrator may never delete their own account through this path.
func CanDeleteUser(p domain.Principal, targetID string) bool {
	return p.Role == domain.RoleAdmin && p.ID != targetID
}
