package service

import (
	"sort"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/pkg/apperror"
)

// AccessController holds the role grants of the ledger. It is not safe for
// concurrent use; the owning Ledger serializes access.
type AccessController struct {
	members map[domain.Role]map[domain.Identity]struct{}
}

// NewAccessController returns a controller with no grants.
func NewAccessController() *AccessController {
	ac := &AccessController{members: make(map[domain.Role]map[domain.Identity]struct{}, len(domain.AllRoles))}
	for _, r := range domain.AllRoles {
		ac.members[r] = make(map[domain.Identity]struct{})
	}
	return ac
}

// HasRole reports whether subject holds role.
func (ac *AccessController) HasRole(subject domain.Identity, role domain.Role) bool {
	set, ok := ac.members[role]
	if !ok {
		return false
	}
	_, held := set[subject]
	return held
}

// Require returns Unauthorized unless subject holds role.
func (ac *AccessController) Require(subject domain.Identity, role domain.Role) error {
	if !ac.HasRole(subject, role) {
		return apperror.ErrUnauthorized(string(role))
	}
	return nil
}

// Count returns the number of identities holding role.
func (ac *AccessController) Count(role domain.Role) int {
	return len(ac.members[role])
}

// Members returns the identities holding role, sorted.
func (ac *AccessController) Members(role domain.Role) []domain.Identity {
	out := make([]domain.Identity, 0, len(ac.members[role]))
	for id := range ac.members[role] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CheckRevoke validates a revocation. It returns false when subject does
// not hold role, in which case the revocation is a no-op.
func (ac *AccessController) CheckRevoke(subject domain.Identity, role domain.Role) (bool, error) {
	if !ac.HasRole(subject, role) {
		return false, nil
	}
	if role == domain.RoleAdmin && ac.Count(domain.RoleAdmin) == 1 {
		return false, apperror.ErrLastAdminLockout()
	}
	return true, nil
}

func (ac *AccessController) grant(subject domain.Identity, role domain.Role) {
	if set, ok := ac.members[role]; ok {
		set[subject] = struct{}{}
	}
}

func (ac *AccessController) revoke(subject domain.Identity, role domain.Role) {
	delete(ac.members[role], subject)
}

func (ac *AccessController) export() map[domain.Role][]domain.Identity {
	out := make(map[domain.Role][]domain.Identity, len(ac.members))
	for _, r := range domain.AllRoles {
		if len(ac.members[r]) > 0 {
			out[r] = ac.Members(r)
		}
	}
	return out
}
