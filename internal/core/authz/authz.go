// Package authz is the authorization gate. Everything here is a pure function
// of the verified claims: no I/O and no state.
package authz

import (
	"fmt"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

// AllowList is the set of roles permitted to call an operation.
type AllowList []domain.Role

// Allow builds an AllowList.
func Allow(roles ...domain.Role) AllowList { return AllowList(roles) }

// Permits reports whether role is in the list.
func (a AllowList) Permits(role domain.Role) bool {
	for _, r := range a {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize fails with ErrUnauthenticated when no identity was established and
// with ErrForbidden when the identity's role is not in allowed.
func Authorize(claims *domain.Claims, allowed AllowList) error {
	if claims == nil || claims.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if !allowed.Permits(claims.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeSelfOrAdmin permits an actor to act on their own account, and an
// admin to act on any account.
func AuthorizeSelfOrAdmin(claims *domain.Claims, userID string) error {
	if claims == nil || claims.UserID == "" {
		return domain.ErrUnauthenticated
	}
	if claims.Role == domain.RoleAdmin || claims.UserID == userID {
		return nil
	}
	return domain.ErrForbidden
}

// FieldPolicy lists, per role, the patch keys that role may supply on an
// update. A role absent from the policy may not update anything.
type FieldPolicy map[domain.Role][]string

// Check rejects the first key the role is not allowed to set.
func (p FieldPolicy) Check(role domain.Role, keys []string) error {
	allowed, ok := p[role]
	if !ok {
		return domain.ErrForbidden
	}
	for _, k := range keys {
		if !containsKey(allowed, k) {
			return domain.Forbidden(fmt.Sprintf("field %q may not be updated by role %s", k, role))
		}
	}
	return nil
}

// InstructionUpdates is the field policy for instruction updates. Sheriffs may
// only report progress through the status field.
var InstructionUpdates = FieldPolicy{
	domain.RoleAttorney: {"sheriff", "document", "instructions", "dueDate", "priority", "status", "notes", "additionalFiles"},
	domain.RoleSheriff:  {"status"},
}

func containsKey(set []string, k string) bool {
	for _, s := range set {
		if s == k {
			return true
		}
	}
	return false
}
