package driven

// Authorizer decides whether a submitted secret grants access to the admin
// view. Abstractly this is a capability check, not identity: the default
// implementation compares a single shared secret, but the port exists so a
// real credential-based authorizer can be swapped in without touching the
// workflows or handlers.
type Authorizer interface {
	Authorize(secret string) bool
}
