package domain

import "time"

// Role is a capability granted to identities.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCertifier Role = "certifier"
	RolePauser    Role = "pauser"
	// RoleOperator may move credits on behalf of any holder.
	RoleOperator Role = "operator"
)

// AllRoles lists every role in a stable order.
var AllRoles = []Role{RoleAdmin, RoleCertifier, RolePauser, RoleOperator}

// ParseRole returns the role named s.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCertifier, RolePauser, RoleOperator:
		return true
	}
	return false
}

// AdminEventKind is the kind of logged administrative operation.
type AdminEventKind string

const (
	AdminRoleGranted AdminEventKind = "role_granted"
	AdminRoleRevoked AdminEventKind = "role_revoked"
	AdminPaused      AdminEventKind = "paused"
	AdminUnpaused    AdminEventKind = "unpaused"
)

// AdminEvent records a role change or a pause toggle. Subject and Role are
// empty for pause events.
type AdminEvent struct {
	Seq       uint64         `json:"seq"`
	Kind      AdminEventKind `json:"kind"`
	Subject   Identity       `json:"subject,omitempty"`
	Role      Role           `json:"role,omitempty"`
	Actor     Identity       `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
}
