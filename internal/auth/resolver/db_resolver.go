package resolver

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"admin-dashboard/internal/auth"
	"admin-dashboard/internal/db"
)

var errNilIdentity = errors.New("identity is nil")

// DBResolver links identities to users in postgres: known identity first,
// then an existing user with the same email, then a new user.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", errNilIdentity
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT user_id FROM identities
		WHERE provider = $1 AND provider_user_id = $2
	`, identity.Provider, identity.ProviderUserID).Scan(&userID)

	switch {
	case err == nil:
		return userID.String(), nil
	case !errors.Is(err, sql.ErrNoRows):
		return "", err
	}

	err = tx.QueryRowContext(ctx, `
		SELECT id FROM users WHERE LOWER(email) = LOWER($1)
	`, identity.Email).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, $2)
			RETURNING id
		`, identity.Email, identity.EmailVerified).Scan(&userID)
	}
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`, userID, identity.Provider, identity.ProviderUserID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return userID.String(), nil
}
