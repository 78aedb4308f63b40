package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"huefolio/internal/domain"
)

// Hub is the hub API surface the lighting service needs
type Hub interface {
	Lookup(ctx context.Context, path string) (json.RawMessage, error)
	SetState(ctx context.Context, id string, payload []byte) ([]byte, error)
}

// LightingService is a stateless view over hub-owned lights and groups
type LightingService struct {
	hub Hub
}

// NewLightingService creates a new LightingService
func NewLightingService(hub Hub) *LightingService {
	return &LightingService{hub: hub}
}

// Groups fetches all light groups keyed by group id
func (s *LightingService) Groups(ctx context.Context) (map[string]any, error) {
	return s.lookupMap(ctx, "groups")
}

// Lights fetches all lights keyed by light id
func (s *LightingService) Lights(ctx context.Context) (map[string]any, error) {
	return s.lookupMap(ctx, "lights")
}

// Group fetches a single group by id
func (s *LightingService) Group(ctx context.Context, id string) (map[string]any, error) {
	return s.lookupMap(ctx, "groups/"+id)
}

// Light fetches a single light by id and reports whether it is on
func (s *LightingService) Light(ctx context.Context, id string) (map[string]any, bool, error) {
	raw, err := s.hub.Lookup(ctx, "lights/"+id)
	if err != nil {
		return nil, false, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode light %s: %w", id, err)
	}

	var light domain.Light
	if err := json.Unmarshal(raw, &light); err != nil {
		return nil, false, fmt.Errorf("failed to decode light %s state: %w", id, err)
	}

	return doc, light.State.On, nil
}

// Control forwards a raw JSON state patch to the hub and flattens the hub's
// ordered outcome list into attribute -> new value (or error detail). The
// attribute name is the outcome path with the /lights/{id}/state/ prefix
// stripped. Later entries overwrite earlier ones for the same attribute,
// matching the order the hub reports.
func (s *LightingService) Control(ctx context.Context, id string, payload []byte) (map[string]any, error) {
	body, err := s.hub.SetState(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	outcomes, err := domain.DecodeOutcomes(body)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("/lights/%s/state/", id)
	updates := make(map[string]any, len(outcomes))
	for _, outcome := range outcomes {
		attribute := strings.TrimPrefix(outcome.Attribute, prefix)
		if outcome.Err != nil {
			updates[attribute] = outcome.Err
			continue
		}
		updates[attribute] = outcome.Value
	}

	return updates, nil
}

func (s *LightingService) lookupMap(ctx context.Context, path string) (map[string]any, error) {
	raw, err := s.hub.Lookup(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return doc, nil
}
