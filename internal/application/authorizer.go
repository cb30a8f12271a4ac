package application

import (
	"crypto/subtle"

	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Authorizer = (*SharedSecretAuthorizer)(nil)

// SharedSecretAuthorizer grants admin access when the submitted value
// matches a single configured password. It carries no per-user identity,
// no audit trail and no expiry; it exists behind the Authorizer port so a
// real authenticator can replace it without touching any workflow.
type SharedSecretAuthorizer struct {
	secret string
}

// NewSharedSecretAuthorizer creates an authorizer for the given shared secret.
func NewSharedSecretAuthorizer(secret string) *SharedSecretAuthorizer {
	return &SharedSecretAuthorizer{secret: secret}
}

// Authorize reports whether the submitted secret matches. The comparison is
// constant-time; an empty configured secret never authorizes.
func (a *SharedSecretAuthorizer) Authorize(secret string) bool {
	if a.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.secret), []byte(secret)) == 1
}
