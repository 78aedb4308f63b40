package usecase

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"huefolio/internal/domain"
)

// QuoteService is the quote lookup surface the trading service needs
type QuoteService interface {
	Lookup(ctx context.Context, symbol string) (*domain.Quote, error)
}

// TradingService implements the buy/sell/portfolio business rules
type TradingService struct {
	users     domain.UserRepository
	portfolio domain.PortfolioRepository
	quotes    QuoteService
}

// NewTradingService creates a new TradingService
func NewTradingService(users domain.UserRepository, portfolio domain.PortfolioRepository, quotes QuoteService) *TradingService {
	return &TradingService{
		users:     users,
		portfolio: portfolio,
		quotes:    quotes,
	}
}

// HoldingView is one portfolio row with its live valuation
type HoldingView struct {
	Symbol string
	Shares int64
	Price  float64
	Value  float64
}

// PortfolioView is a user's cash plus all holdings valued at current prices
type PortfolioView struct {
	Cash     float64
	Holdings []HoldingView
	Total    float64
}

// ParseShares validates a submitted share count. Only positive whole
// numbers that fit in an int64 are accepted; "3.0" passes, "2.5", "abc",
// "0" and "inf" do not.
func ParseShares(raw string) (int64, error) {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, domain.ErrInvalidShares
	}
	// The range check also rejects ±Inf; NaN fails the truncation check.
	if n < 1 || n >= math.MaxInt64 || n != math.Trunc(n) {
		return 0, domain.ErrInvalidShares
	}
	return int64(n), nil
}

// Portfolio returns the user's cash and holdings valued at current prices.
// A failed price lookup leaves that holding at zero valuation rather than
// failing the whole page.
func (s *TradingService) Portfolio(ctx context.Context, userID uuid.UUID) (*PortfolioView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.portfolio.HoldingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{Cash: user.Cash}
	for _, holding := range holdings {
		row := HoldingView{Symbol: holding.Symbol, Shares: holding.Shares}

		quote, err := s.quotes.Lookup(ctx, holding.Symbol)
		if err != nil {
			log.Warn().Err(err).Str("symbol", holding.Symbol).Msg("price lookup failed, valuing at zero")
		} else {
			row.Price = quote.Price
			row.Value = quote.Price * float64(holding.Shares)
		}

		view.Holdings = append(view.Holdings, row)
		view.Total += row.Value
	}

	return view, nil
}

// Buy purchases shares at the current price, debiting cash and upserting
// the holding atomically.
func (s *TradingService) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) error {
	if shares < 1 {
		return domain.ErrInvalidShares
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return err
	}

	return s.portfolio.Buy(ctx, userID, quote.Symbol, quote.Price, shares)
}

// Sell sells shares at the current price, crediting cash and decrementing
// the holding atomically; the holding is removed when it reaches zero.
func (s *TradingService) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) error {
	if shares < 1 {
		return domain.ErrInvalidShares
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return err
	}

	return s.portfolio.Sell(ctx, userID, quote.Symbol, quote.Price, shares)
}

// OwnedSymbols lists the symbols the user currently holds
func (s *TradingService) OwnedSymbols(ctx context.Context, userID uuid.UUID) ([]string, error) {
	holdings, err := s.portfolio.HoldingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		if holding.Shares > 0 {
			symbols = append(symbols, holding.Symbol)
		}
	}
	return symbols, nil
}

// History returns the user's transactions, most recent first
func (s *TradingService) History(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	return s.portfolio.TransactionsByUser(ctx, userID)
}

// Quote looks up the current price for a symbol
func (s *TradingService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	quote, err := s.quotes.Lookup(ctx, symbol)
	if errors.Is(err, domain.ErrSymbolNotFound) {
		return nil, domain.ErrSymbolNotFound
	}
	if err != nil {
		return nil, err
	}
	return quote, nil
}
