package lightweb

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"huefolio/internal/domain"
	"huefolio/internal/session"
)

// clearSession forgets any session attached to the request
func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		h.sessions.Destroy(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// HandleLoginForm renders the login page
// GET /login
func (h *Handler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	h.render(w, "login", nil)
}

// HandleLogin logs a user in
// POST /login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" {
		h.apology(w, "must provide username")
		return
	}
	if password == "" {
		h.apology(w, "must provide password")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		h.apology(w, "invalid username and/or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		h.apology(w, "invalid username and/or password")
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(session.TTL / time.Second),
	})

	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout logs a user out
// GET /logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleRegisterForm renders the registration page
// GET /register
func (h *Handler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register", nil)
}

// HandleRegister registers a new user
// POST /register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	confirmation := r.FormValue("confirmation")

	if username == "" {
		h.apology(w, "must provide username")
		return
	}

	if _, err := h.users.GetByUsername(r.Context(), username); err == nil {
		h.apology(w, "username unavailable")
		return
	}

	if password == "" {
		h.apology(w, "must provide password")
		return
	}
	if confirmation == "" {
		h.apology(w, "must confirm password")
		return
	}
	if confirmation != password {
		h.apology(w, "passwords do not match")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
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

	if err := h.users.Create(r.Context(), user); err != nil {
		if err == domain.ErrUsernameTaken {
			h.apology(w, "username unavailable")
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// HandleAccountForm shows the password-change page
// GET /account
func (h *Handler) HandleAccountForm(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "account", map[string]any{"Username": user.Username})
}

// HandleAccount changes the user's password
// POST /account
func (h *Handler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	oldpass := r.FormValue("oldpass")
	if oldpass == "" {
		h.apology(w, "must provide old password")
		return
	}

	newpass := r.FormValue("newpass")
	if newpass == "" {
		h.apology(w, "must provide new password")
		return
	}

	if newpass != r.FormValue("confirmation") {
		h.apology(w, "passwords do not match")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldpass)); err != nil {
		h.apology(w, "old password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newpass), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdatePasswordHash(r.Context(), id, string(hash)); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
