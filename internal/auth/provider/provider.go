package provider

import (
	"context"

	"admin-dashboard/internal/auth"
)

// OAuthProvider is an external sign-in provider. Implementations return
// identity facts only; users and sessions are handled by the caller.
type OAuthProvider interface {
	// Name returns the provider identifier used in routes.
	Name() string

	// AuthCodeURL returns the authorization URL for state and PKCE challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode trades the authorization code for a verified identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
