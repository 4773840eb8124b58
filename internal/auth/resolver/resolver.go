package resolver

import (
	"context"

	"admin-dashboard/internal/auth"
)

// Resolver maps an external identity to the dashboard user id.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (userID string, err error)
}
