// Package token issues and verifies the signed tokens handed to the
// session store on login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"admin-dashboard/internal/session"
)

const issuerName = "admin-dashboard"

var ErrInvalidToken = errors.New("token: invalid")

// Claims carries the user fields needed to render the dashboard.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) < 32 {
		return nil, errors.New("token: secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the given user.
func (i *Issuer) Issue(userID, email, name string) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// UserRecord issues a token and wraps it in a session user record.
func (i *Issuer) UserRecord(userID, email, name string) (session.UserRecord, error) {
	tok, err := i.Issue(userID, email, name)
	if err != nil {
		return session.UserRecord{}, err
	}
	return session.UserRecord{
		Token:  tok,
		UserID: userID,
		Email:  email,
		Name:   name,
	}, nil
}

// Parse verifies signature, issuer and expiry.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// ParseUser rebuilds the user record carried by raw.
func (i *Issuer) ParseUser(raw string) (session.UserRecord, error) {
	claims, err := i.Parse(raw)
	if err != nil {
		return session.UserRecord{}, err
	}
	return session.UserRecord{
		Token:  raw,
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
