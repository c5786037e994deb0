package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/csemanager/internal/common"
)

// RegistrationGate guards account creation with a shared secret.
// An empty configured secret closes registration entirely.
type RegistrationGate struct {
	secret []byte
}

func NewRegistrationGate(secret string) *RegistrationGate {
	return &RegistrationGate{secret: []byte(secret)}
}

// Check compares supplied against the configured secret in constant time.
func (g *RegistrationGate) Check(supplied string) bool {
	if len(g.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(supplied)) == 1
}

// Admit returns common.ErrForbidden when supplied does not match.
func (g *RegistrationGate) Admit(supplied string) error {
	if !g.Check(supplied) {
		return common.ErrForbidden
	}
	return nil
}
