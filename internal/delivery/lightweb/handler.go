package lightweb

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"huefolio/internal/domain"
	"huefolio/internal/usecase"
)

// Handler serves the lighting control panel
type Handler struct {
	templates *template.Template
	lights    *usecase.LightingService
	users     domain.UserRepository
	sessions  SessionStore
}

// NewHandler creates a new Handler
func NewHandler(templates *template.Template, lights *usecase.LightingService, users domain.UserRepository, sessions SessionStore) *Handler {
	return &Handler{
		templates: templates,
		lights:    lights,
		users:     users,
		sessions:  sessions,
	}
}

// HandleIndex shows all groups and lights
// GET /
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	groups, err := h.lights.Groups(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	lights, err := h.lights.Lights(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "index", map[string]any{
		"Groups": groups,
		"Lights": lights,
	})
}

// HandleGroup shows one group and all lights
// GET /group/{id}
func (h *Handler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	group, err := h.lights.Group(r.Context(), id)
	if err != nil {
		h.serverError(w, err)
		return
	}

	lights, err := h.lights.Lights(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "group", map[string]any{
		"Group":  group,
		"Lights": lights,
	})
}

// HandleLight shows one light with its current on/off state
// GET|POST /light/{id}
func (h *Handler) HandleLight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	light, on, err := h.lights.Light(r.Context(), id)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "light", map[string]any{
		"Light":   light,
		"LightOn": on,
		"ID":      id,
	})
}

// HandleControl forwards a raw state-change command to the hub and responds
// with the flat attribute -> value-or-error map
// POST /control/{id}
func (h *Handler) HandleControl(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	updates, err := h.lights.Control(r.Context(), id, payload)
	if err != nil {
		h.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updates); err != nil {
		log.Error().Err(err).Msg("failed to encode control response")
	}
}

// render executes a page template
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render template")
	}
}

// apology renders a user-visible failure with HTTP 400
func (h *Handler) apology(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, "apology", map[string]any{"Message": message})
}

// serverError reports a collaborator or internal failure as HTTP 500
func (h *Handler) serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
