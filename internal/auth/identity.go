package auth

// Identity is what an SSO provider asserts about the signed-in account.
type Identity struct {
	Provider       string // e.g. "google", "keycloak"
	ProviderUserID string // provider-scoped subject
	Email          string
	EmailVerified  bool
	Name           string
}
