package session

import (
	"errors"
	"strings"
)

var ErrMissingToken = errors.New("session: user record has no token")

// UserRecord is the signed-in user as seen by the dashboard.
// Only Token is required; the remaining fields are display data.
type UserRecord struct {
	Token  string `json:"token"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Validate rejects records that cannot be persisted.
func (u UserRecord) Validate() error {
	if strings.TrimSpace(u.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

// DisplayName prefers Name, then Email, then UserID.
func (u UserRecord) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.UserID
	}
}
