package domain

import "errors"

// Business-rule and validation failures. Handlers render these as an
// apology page with HTTP 400; anything else is a server error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username unavailable")
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrSymbolNotFound     = errors.New("stock not found")
	ErrInvalidShares      = errors.New("invalid number of shares")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNoHolding          = errors.New("stock not owned")
	ErrInsufficientShares = errors.New("not enough shares to sell")
)
