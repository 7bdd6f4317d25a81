package domain

import "regexp"

// Identity is an opaque account identifier resolved by the identity provider.
type Identity string

// VoidIdentity is the null party: the source of issuance and the sink of
// retirement. It can never hold credits or roles.
const VoidIdentity Identity = "0x0000000000000000000000000000000000000000"

const maxIdentityLen = 128

var identityPattern = regexp.MustCompile(`^[a-zA-Z0-9:_\-.]+$`)

// IsVoid reports whether i is the void identity.
func (i Identity) IsVoid() bool {
	return i == VoidIdentity
}

// Valid reports whether i may receive credits or roles.
func (i Identity) Valid() bool {
	if i == "" || i.IsVoid() || len(i) > maxIdentityLen {
		return false
	}
	return identityPattern.MatchString(string(i))
}

func (i Identity) String() string {
	return string(i)
}
