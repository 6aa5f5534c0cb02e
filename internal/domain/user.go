// Package domain holds the Quick Note entities shared across layers.
package domain

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail trims surrounding whitespace. Case is preserved; uniqueness
// is enforced on the stored value.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
