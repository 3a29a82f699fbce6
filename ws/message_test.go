package ws

import (
	"encoding/json"
	"testing"
)

func TestInboundEnvelopeKeepsRaw(t *testing.T) {
	data := []byte(`{"type":"input","buttons":{"a":true,"left":true}}`)
	var env InboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Type != "input" {
		t.Errorf("expected type input, got %q", env.Type)
	}
	var msg InputMsg
	if err := json.Unmarshal(env.Raw, &msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !msg.Buttons["a"] || !msg.Buttons["left"] || len(msg.Buttons) != 2 {
		t.Errorf("expected a and left pressed, got %v", msg.Buttons)
	}
}

func TestInboundEnvelopeRejectsGarbage(t *testing.T) {
	var env InboundEnvelope
	if err := json.Unmarshal([]byte(`{"type":`), &env); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
