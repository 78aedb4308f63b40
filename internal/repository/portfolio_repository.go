package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"huefolio/internal/domain"
)

// PortfolioRepositoryImpl implements the PortfolioRepository interface
type PortfolioRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db *pgxpool.Pool) domain.PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

// HoldingsByUser retrieves all of a user's holdings ordered by symbol
func (r *PortfolioRepositoryImpl) HoldingsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	query := `
		SELECT user_id, symbol, shares
		FROM portfolio
		WHERE user_id = $1
		ORDER BY symbol
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding := &domain.Holding{}
		if err := rows.Scan(&holding.UserID, &holding.Symbol, &holding.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// Holding retrieves one holding, or ErrNoHolding if the user owns none of the symbol
func (r *PortfolioRepositoryImpl) Holding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `
		SELECT user_id, symbol, shares
		FROM portfolio
		WHERE user_id = $1 AND symbol = $2
	`

	holding := &domain.Holding{}
	err := r.db.QueryRow(ctx, query, userID, symbol).Scan(&holding.UserID, &holding.Symbol, &holding.Shares)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoHolding
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}

	return holding, nil
}

// TransactionsByUser retrieves a user's transactions, most recent first
func (r *PortfolioRepositoryImpl) TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	query := `
		SELECT id, user_id, symbol, price, shares, action, ts
		FROM transactions
		WHERE user_id = $1
		ORDER BY ts DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx := &domain.Transaction{}
		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Symbol, &tx.Price, &tx.Shares, &tx.Action, &tx.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// Buy records a BUY transaction, debits cash, and upserts the holding as a
// single database transaction. Fails with ErrInsufficientFunds when the
// user's cash does not cover price*shares; no state changes in that case.
func (r *PortfolioRepositoryImpl) Buy(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin buy transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var cash float64
	err = tx.QueryRow(ctx, `SELECT cash FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&cash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock user row: %w", err)
	}

	cost := price * float64(shares)
	if cash < cost {
		return domain.ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, symbol, price, shares, action)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, symbol, price, shares, domain.ActionBuy)
	if err != nil {
		return fmt.Errorf("failed to record buy transaction: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE users SET cash = cash - $1, updated_at = NOW() WHERE id = $2`, cost, userID)
	if err != nil {
		return fmt.Errorf("failed to debit cash: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO portfolio (user_id, symbol, shares)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol)
		DO UPDATE SET shares = portfolio.shares + EXCLUDED.shares
	`, userID, symbol, shares)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit buy: %w", err)
	}

	return nil
}

// Sell records a SELL transaction, credits cash, and decrements the holding
// as a single database transaction, deleting the holding when it reaches
// zero. Fails with ErrNoHolding or ErrInsufficientShares without mutating
// any state.
func (r *PortfolioRepositoryImpl) Sell(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin sell transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var owned int64
	err = tx.QueryRow(ctx, `
		SELECT shares FROM portfolio WHERE user_id = $1 AND symbol = $2 FOR UPDATE
	`, userID, symbol).Scan(&owned)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNoHolding
	}
	if err != nil {
		return fmt.Errorf("failed to lock holding row: %w", err)
	}

	if owned == 0 {
		return domain.ErrNoHolding
	}
	if owned < shares {
		return domain.ErrInsufficientShares
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (user_id, symbol, price, shares, action)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, symbol, price, shares, domain.ActionSell)
	if err != nil {
		return fmt.Errorf("failed to record sell transaction: %w", err)
	}

	saleValue := price * float64(shares)
	_, err = tx.Exec(ctx, `UPDATE users SET cash = cash + $1, updated_at = NOW() WHERE id = $2`, saleValue, userID)
	if err != nil {
		return fmt.Errorf("failed to credit cash: %w", err)
	}

	remaining := owned - shares
	if remaining == 0 {
		_, err = tx.Exec(ctx, `DELETE FROM portfolio WHERE user_id = $1 AND symbol = $2`, userID, symbol)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE portfolio SET shares = $1 WHERE user_id = $2 AND symbol = $3
		`, remaining, userID, symbol)
	}
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sell: %w", err)
	}

	return nil
}
