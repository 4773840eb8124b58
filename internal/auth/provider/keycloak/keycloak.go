package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"admin-dashboard/internal/auth/provider"
)

const providerName = "keycloak"

// New initializes a Keycloak provider using discovery.
// issuer must be the realm issuer URL, e.g.
// http://keycloak:8080/realms/dashboard
// publicBaseURL is the browser-facing Keycloak origin when it differs from
// the one the server reaches, e.g. http://localhost:8081
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	redirectURL string,
	publicBaseURL string,
) (*provider.OIDC, error) {

	if issuer == "" || clientID == "" || redirectURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	ep := oidcProvider.Endpoint()
	if publicBaseURL != "" {
		ep.AuthURL, err = publicAuthURL(issuer, publicBaseURL)
		if err != nil {
			return nil, err
		}
	}

	return provider.NewOIDC(providerName, oidcProvider, &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		Endpoint:    ep,
		Scopes:      []string{oidc.ScopeOpenID, "email", "profile"},
	}), nil
}

// publicAuthURL rewrites the realm authorization endpoint onto the public
// origin, keeping the realm path of issuer.
func publicAuthURL(issuer, publicBaseURL string) (string, error) {
	u, err := url.Parse(issuer)
	if err != nil {
		return "", fmt.Errorf("keycloak issuer: %w", err)
	}
	return strings.TrimRight(publicBaseURL, "/") +
		strings.TrimRight(u.Path, "/") +
		"/protocol/openid-connect/auth", nil
}
