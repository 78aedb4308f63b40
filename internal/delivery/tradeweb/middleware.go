package tradeweb

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"huefolio/internal/session"
)

// SessionStore is the session capability the handlers depend on
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Get(ctx context.Context, sid string) (uuid.UUID, error)
	Destroy(ctx context.Context, sid string) error
}

// RequireSession redirects to /login unless the request carries a live
// session, and stores the user id on the echo context.
func RequireSession(sessions SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil {
				return c.Redirect(http.StatusFound, "/login")
			}

			userID, err := sessions.Get(c.Request().Context(), cookie.Value)
			if err != nil || userID == uuid.Nil {
				return c.Redirect(http.StatusFound, "/login")
			}

			c.Set("user_id", userID)
			return next(c)
		}
	}
}

// sessionUserID extracts the authenticated user's id from the echo context
func sessionUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get("user_id").(uuid.UUID)
	return id, ok
}

// NoCache mirrors the simulator's no-store policy on every response
func NoCache(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Expires", "0")
		h.Set("Pragma", "no-cache")
		return next(c)
	}
}
