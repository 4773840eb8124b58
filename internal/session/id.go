package session

import (
	"fmt"

	"admin-dashboard/internal/utils"
)

// NewScopeID generates a browser scope identifier.
// 32 bytes = 256 bits of entropy.
func NewScopeID() (string, error) {
	const size = 32

	id, err := utils.RandomString(size)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate scope id: %w", err)
	}
	return id, nil
}
