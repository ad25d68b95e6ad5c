// Package access holds the self-or-admin rule applied to every user route.
package access

import "github.com/oksasatya/business-card-api/internal/domain/entity"

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide allows the requester to act on targetID when it is their own record
// or when they are an admin. Used for read-one, update, business toggle and delete.
func Decide(requester entity.Identity, targetID string) Decision {
	if requester.IsAdmin {
		return Allow
	}
	if requester.UserID != "" && requester.UserID == targetID {
		return Allow
	}
	return Deny
}

// DecideAdmin allows admins only. There is no self exception: listing users
// and changing roles are admin operations.
func DecideAdmin(requester entity.Identity) Decision {
	if requester.IsAdmin {
		return Allow
	}
	return Deny
}
