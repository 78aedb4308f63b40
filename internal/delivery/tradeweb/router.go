package tradeweb

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all trading simulator routes
func SetupRoutes(e *echo.Echo, h *Handler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(NoCache)

	// Public routes
	e.GET("/login", h.HandleLoginForm)
	e.POST("/login", h.HandleLogin)
	e.GET("/logout", h.HandleLogout)
	e.GET("/register", h.HandleRegisterForm)
	e.POST("/register", h.HandleRegister)

	// Protected routes
	auth := RequireSession(h.sessions)
	e.GET("/", h.HandleIndex, auth)
	e.GET("/buy", h.HandleBuyForm, auth)
	e.POST("/buy", h.HandleBuy, auth)
	e.GET("/sell", h.HandleSellForm, auth)
	e.POST("/sell", h.HandleSell, auth)
	e.GET("/quote", h.HandleQuote, auth)
	e.POST("/quote", h.HandleQuote, auth)
	e.GET("/history", h.HandleHistory, auth)
	e.GET("/account", h.HandleAccountForm, auth)
	e.POST("/account", h.HandleAccount, auth)
}
