package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines user persistence operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// PortfolioRepository defines holding and transaction persistence.
// Buy and Sell are compound writes (transaction record + cash + holding)
// and must execute as a single database transaction.
type PortfolioRepository interface {
	HoldingsByUser(ctx context.Context, userID uuid.UUID) ([]*Holding, error)
	Holding(ctx context.Context, userID uuid.UUID, symbol string) (*Holding, error)
	TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]*Transaction, error)
	Buy(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error
	Sell(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error
}
