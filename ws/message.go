package ws

import (
	"encoding/json"

	"set-game-server/game"
)

// InboundEnvelope is the generic envelope for all client-to-server messages.
// The Type field is used for routing; Raw holds the full JSON payload.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements custom unmarshaling to capture the raw payload.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-Server message payloads ---

// HelloMsg starts the client's session. Token is required when the server
// has auth configured; Skin is optional.
type HelloMsg struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
	Skin  string `json:"skin,omitempty"`
}

// InputMsg carries the full button levels, e.g. {"a": true}.
// Buttons missing from the map are released.
type InputMsg struct {
	Type    string          `json:"type"`
	Buttons map[string]bool `json:"buttons"`
}

// PressMsg taps one button: pressed and released before the next step.
type PressMsg struct {
	Type   string `json:"type"`
	Button string `json:"button"`
}

// --- Server-to-Client messages ---

// WelcomeMsg confirms the session and describes the skin in use.
// View updates follow as session.ViewMsg.
type WelcomeMsg struct {
	Type      string       `json:"type"`
	SessionID string       `json:"sessionId"`
	Name      string       `json:"name"`
	Skin      string       `json:"skin"`
	Domains   game.Domains `json:"domains"`
}

// ErrorMsg is sent when a client action is invalid.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
