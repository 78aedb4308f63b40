package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCash is the balance granted to every newly registered trading user.
const DefaultCash = 10000.0

// User represents a registered user in either application
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Cash         float64   `json:"cash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
