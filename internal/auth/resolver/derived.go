package resolver

import (
	"context"

	"github.com/google/uuid"

	"admin-dashboard/internal/auth"
)

// identityNamespace seeds name-based user ids for DerivedResolver.
var identityNamespace = uuid.MustParse("8f6c2d7e-4b1a-4c55-9a3e-2f0d6b9e1c42")

// DerivedResolver is used when no database is configured. The user id is
// a stable UUIDv5 of provider and subject, so the same account always maps
// to the same id.
type DerivedResolver struct{}

func (DerivedResolver) Resolve(_ context.Context, identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", errNilIdentity
	}
	name := identity.Provider + ":" + identity.ProviderUserID
	return uuid.NewSHA1(identityNamespace, []byte(name)).String(), nil
}
