package resolver

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"

	"admin-dashboard/internal/auth"
)

func TestDerivedResolver(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	r := DerivedResolver{}

	a, err := r.Resolve(ctx, &auth.Identity{Provider: "google", ProviderUserID: "123"})
	c.Assert(err, qt.IsNil)
	again, err := r.Resolve(ctx, &auth.Identity{Provider: "google", ProviderUserID: "123", Email: "x@y"})
	c.Assert(err, qt.IsNil)
	other, err := r.Resolve(ctx, &auth.Identity{Provider: "keycloak", ProviderUserID: "123"})
	c.Assert(err, qt.IsNil)

	c.Assert(again, qt.Equals, a)
	c.Assert(other, qt.Not(qt.Equals), a)

	id, err := uuid.Parse(a)
	c.Assert(err, qt.IsNil)
	c.Assert(id.Version(), qt.Equals, uuid.Version(5))

	_, err = r.Resolve(ctx, nil)
	c.Assert(err, qt.ErrorIs, errNilIdentity)
}
