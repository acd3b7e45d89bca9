package service

import "testing"

func TestDecodeClientMessage(t *testing.T) {
	msg := &WSMessage{}
	if err := decodeClientMessage(msg, []byte(`{"type":"CHAT","data":"hello"}`)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != EventChat {
		t.Errorf("Type = %q, want %q", msg.Type, EventChat)
	}
	if msg.Data != "hello" {
		t.Errorf("Data = %v, want %q", msg.Data, "hello")
	}

	if err := decodeClientMessage(msg, []byte(`{"type":`)); err == nil {
		t.Error("expected an error for a malformed frame")
	}
}

func TestDecodeClientMessageResetsRecycledMessage(t *testing.T) {
	// A message coming back from the pool still carries the previous frame.
	msg := &WSMessage{Type: "HOST_MUTE", Data: map[string]interface{}{"userId": float64(7)}}

	if err := decodeClientMessage(msg, []byte(`{}`)); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != "" {
		t.Errorf("Type = %q, want empty after decoding a frame without a type", msg.Type)
	}
	if msg.Data != nil {
		t.Errorf("Data = %v, want nil after decoding a frame without data", msg.Data)
	}
}
