package tradeweb

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"huefolio/internal/domain"
	"huefolio/internal/usecase"
)

// Handler serves the trading simulator
type Handler struct {
	templates *template.Template
	trading   *usecase.TradingService
	users     domain.UserRepository
	sessions  SessionStore
}

// NewHandler creates a new Handler
func NewHandler(templates *template.Template, trading *usecase.TradingService, users domain.UserRepository, sessions SessionStore) *Handler {
	return &Handler{
		templates: templates,
		trading:   trading,
		users:     users,
		sessions:  sessions,
	}
}

// HandleIndex shows the portfolio with live valuation
// GET /
func (h *Handler) HandleIndex(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	view, err := h.trading.Portfolio(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return h.render(c, "index", map[string]any{
		"Cash":           view.Cash,
		"Portfolio":      view.Holdings,
		"PortfolioValue": view.Total,
	})
}

// HandleBuyForm renders the buy page
// GET /buy
func (h *Handler) HandleBuyForm(c echo.Context) error {
	return h.render(c, "buy", nil)
}

// HandleBuy buys shares of a stock
// POST /buy
func (h *Handler) HandleBuy(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	symbol := c.FormValue("symbol")
	if symbol == "" {
		return h.apology(c, "Must enter stock symbol")
	}

	shares, err := usecase.ParseShares(c.FormValue("shares"))
	if err != nil {
		return h.apology(c, "Invalid number of shares")
	}

	err = h.trading.Buy(c.Request().Context(), id, symbol, shares)
	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		return h.apology(c, "Stock not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return h.apology(c, "Insufficient funds")
	case err != nil:
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// HandleSellForm renders the sell page with the user's symbols
// GET /sell
func (h *Handler) HandleSellForm(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	symbols, err := h.trading.OwnedSymbols(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return h.render(c, "sell", map[string]any{"Symbols": symbols})
}

// HandleSell sells shares of a stock
// POST /sell
func (h *Handler) HandleSell(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	symbol := c.FormValue("symbol")
	if symbol == "" {
		return h.apology(c, "Must select a stock symbol")
	}

	shares, err := usecase.ParseShares(c.FormValue("shares"))
	if err != nil {
		return h.apology(c, "Invalid number of shares")
	}

	err = h.trading.Sell(c.Request().Context(), id, symbol, shares)
	switch {
	case errors.Is(err, domain.ErrSymbolNotFound):
		return h.apology(c, "Stock not found")
	case errors.Is(err, domain.ErrNoHolding):
		return h.apology(c, "You do not own this stock")
	case errors.Is(err, domain.ErrInsufficientShares):
		return h.apology(c, "You don't have that many shares to sell")
	case err != nil:
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}

// HandleQuote looks up a stock quote, from form or query string
// GET|POST /quote
func (h *Handler) HandleQuote(c echo.Context) error {
	var symbol string
	if c.Request().Method == http.MethodPost {
		symbol = c.FormValue("symbol")
		if symbol == "" {
			return h.apology(c, "Must enter stock symbol")
		}
	} else {
		symbol = c.QueryParam("symbol")
	}

	if symbol == "" {
		return h.render(c, "quote", nil)
	}

	quote, err := h.trading.Quote(c.Request().Context(), symbol)
	if errors.Is(err, domain.ErrSymbolNotFound) {
		return h.apology(c, "Stock not found")
	}
	if err != nil {
		return err
	}

	return h.render(c, "quoted", map[string]any{
		"Name":   quote.Name,
		"Symbol": quote.Symbol,
		"Price":  quote.Price,
	})
}

// HandleHistory shows the user's transactions, most recent first
// GET /history
func (h *Handler) HandleHistory(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	transactions, err := h.trading.History(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return h.render(c, "history", map[string]any{"Transactions": transactions})
}

// render executes a page template
func (h *Handler) render(c echo.Context, name string, data any) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return h.templates.ExecuteTemplate(c.Response(), name, data)
}

// apology renders a user-visible failure with HTTP 400
func (h *Handler) apology(c echo.Context, message string) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusBadRequest)
	return h.templates.ExecuteTemplate(c.Response(), "apology", map[string]any{"Message": message})
}
