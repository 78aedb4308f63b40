package domain

import (
	"encoding/json"
	"fmt"
)

// HubError is the error detail the hub attaches to a failed state change
type HubError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Outcome is one per-attribute result from the hub's ordered outcome list.
// Exactly one of Value or Err is set: a success/updated entry carries the
// attribute's new value, an error entry carries the hub's error detail.
type Outcome struct {
	Attribute string
	Value     any
	Err       *HubError
}

// DecodeOutcomes decodes the hub's response to a state-change command into
// the ordered outcome list. Attribute paths keep their fully-qualified form
// (e.g. /lights/5/state/on); callers strip the prefix when flattening.
func DecodeOutcomes(data []byte) ([]Outcome, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode hub outcome list: %w", err)
	}

	var outcomes []Outcome
	for _, entry := range entries {
		for kind, raw := range entry {
			if kind == "success" || kind == "updated" {
				var values map[string]any
				if err := json.Unmarshal(raw, &values); err != nil {
					return nil, fmt.Errorf("failed to decode %s outcome: %w", kind, err)
				}
				for path, value := range values {
					outcomes = append(outcomes, Outcome{Attribute: path, Value: value})
				}
				continue
			}

			var hubErr HubError
			if err := json.Unmarshal(raw, &hubErr); err != nil {
				return nil, fmt.Errorf("failed to decode %s outcome: %w", kind, err)
			}
			outcomes = append(outcomes, Outcome{Attribute: hubErr.Address, Err: &hubErr})
		}
	}

	return outcomes, nil
}

// LightState is the subset of a light document the panel inspects directly
type LightState struct {
	On bool `json:"on"`
}

// Light is a light document as returned by the hub. The hub owns the
// resource; this is a per-request view, never persisted.
type Light struct {
	Name  string     `json:"name"`
	State LightState `json:"state"`
}
