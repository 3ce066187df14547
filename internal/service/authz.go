package service

import "ridehail/internal/domain"

// RoleAllowed reports whether the caller's role is in the operation's
// required role set. Transport-independent; the HTTP middleware delegates
// here.
func RoleAllowed(role domain.Role, allowed ...domain.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
