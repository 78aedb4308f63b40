package tradeweb

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"huefolio/internal/domain"
	"huefolio/internal/session"
)

// clearSession forgets any session attached to the request
func (h *Handler) clearSession(c echo.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		h.sessions.Destroy(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// HandleLoginForm renders the login page
// GET /login
func (h *Handler) HandleLoginForm(c echo.Context) error {
	h.clearSession(c)
	return h.render(c, "login", nil)
}

// HandleLogin logs a user in
// POST /login
func (h *Handler) HandleLogin(c echo.Context) error {
	h.clearSession(c)

	username := c.FormValue("username")
	password := c.FormValue("password")

	if username == "" {
		return h.apology(c, "must provide username")
	}
	if password == "" {
		return h.apology(c, "must provide password")
	}

	user, err := h.users.GetByUsername(c.Request().Context(), username)
	if err != nil {
		return h.apology(c, "invalid username and/or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return h.apology(c, "invalid username and/or password")
	}

	sid, err := h.sessions.Create(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(session.TTL / time.Second),
	})

	return c.Redirect(http.StatusFound, "/")
}

// HandleLogout logs a user out
// GET /logout
func (h *Handler) HandleLogout(c echo.Context) error {
	h.clearSession(c)
	return c.Redirect(http.StatusFound, "/")
}

// HandleRegisterForm renders the registration page
// GET /register
func (h *Handler) HandleRegisterForm(c echo.Context) error {
	return h.render(c, "register", nil)
}

// HandleRegister registers a new user
// POST /register
func (h *Handler) HandleRegister(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	confirmation := c.FormValue("confirmation")

	if username == "" {
		return h.apology(c, "must provide username")
	}

	if _, err := h.users.GetByUsername(c.Request().Context(), username); err == nil {
		return h.apology(c, "username unavailable")
	}

	if password == "" {
		return h.apology(c, "must provide password")
	}
	if confirmation == "" {
		return h.apology(c, "must confirm password")
	}
	if confirmation != password {
		return h.apology(c, "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Cash:         domain.DefaultCash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.users.Create(c.Request().Context(), user); err != nil {
		if err == domain.ErrUsernameTaken {
			return h.apology(c, "username unavailable")
		}
		return err
	}

	return c.Redirect(http.StatusFound, "/login")
}

// HandleAccountForm shows the password-change page
// GET /account
func (h *Handler) HandleAccountForm(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return h.render(c, "account", map[string]any{"Username": user.Username})
}

// HandleAccount changes the user's password
// POST /account
func (h *Handler) HandleAccount(c echo.Context) error {
	id, ok := sessionUserID(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	oldpass := c.FormValue("oldpass")
	if oldpass == "" {
		return h.apology(c, "must provide old password")
	}

	newpass := c.FormValue("newpass")
	if newpass == "" {
		return h.apology(c, "must provide new password")
	}

	if newpass != c.FormValue("confirmation") {
		return h.apology(c, "passwords do not match")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldpass)); err != nil {
		return h.apology(c, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newpass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := h.users.UpdatePasswordHash(c.Request().Context(), id, string(hash)); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, "/")
}
