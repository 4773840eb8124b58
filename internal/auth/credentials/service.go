package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"admin-dashboard/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
	ErrInvalidEmail       = errors.New("invalid email")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
	name string,
) (Account, error) {

	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return Account{}, ErrInvalidEmail
	}

	hash, version, err := HashPassword(password)
	if err != nil {
		return Account{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uuid.UUID

	// 1. Find or create user by email
	err = tx.QueryRowContext(ctx, `
		SELECT id, display_name FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID, &name)

	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified, display_name)
			VALUES ($1, false, $2)
			RETURNING id
		`, email, name).Scan(&userID)
	}

	if err != nil {
		return Account{}, err
	}

	// 2. Check if credentials already exist
	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)

	if err != nil {
		return Account{}, err
	}

	if exists {
		return Account{}, ErrAlreadyRegistered
	}

	// 3. Insert credentials
	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return Account{}, err
	}

	return Account{UserID: userID.String(), Email: email, Name: name}, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (Account, error) {

	var (
		userID       uuid.UUID
		storedEmail  string
		name         string
		passwordHash string
	)

	// 1. Find active user + credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.display_name, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
		  AND u.active
	`, strings.TrimSpace(email)).Scan(&userID, &storedEmail, &name, &passwordHash)

	if errors.Is(err, sql.ErrNoRows) {
		// hide whether user exists or not
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("credentials: lookup: %w", err)
	}

	// 2. Verify password
	if err := VerifyPassword(passwordHash, password); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return Account{UserID: userID.String(), Email: storedEmail, Name: name}, nil
}
