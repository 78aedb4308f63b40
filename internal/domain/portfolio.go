package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction actions
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Holding is a user's current share count in one symbol.
// A holding row exists only while shares > 0; selling down to zero removes it.
type Holding struct {
	UserID uuid.UUID `json:"user_id"`
	Symbol string    `json:"symbol"`
	Shares int64     `json:"shares"`
}

// Transaction is an immutable record of one executed buy or sell
type Transaction struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Shares    int64     `json:"shares"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Quote is the current price and name for a ticker symbol
type Quote struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}
