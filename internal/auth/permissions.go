package auth

import "strings"

// CanMutateOrders is the single authorization capability consulted before
// any order status mutation. The role must come from a fresh profiles
// lookup, not a cached token claim.
func CanMutateOrders(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), string(RoleAdmin))
}

// CanManageRoles gates admin-role assignment to the configured owner
// account. An empty ownerEmail disables role management entirely.
func CanManageRoles(email string, ownerEmail string) bool {
	ownerEmail = strings.TrimSpace(ownerEmail)
	if ownerEmail == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(email), ownerEmail)
}
