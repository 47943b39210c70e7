package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"type":"message","content":"hi"}`))
	if err != nil {
		t.Fatalf("DecodeInbound failed: %v", err)
	}
	if in.Type != KindMessage || in.Content != "hi" {
		t.Errorf("decoded = %+v", in)
	}

	if _, err := DecodeInbound([]byte(`not json`)); err == nil {
		t.Error("DecodeInbound accepted malformed input")
	}
}

func TestMessageEnvelope(t *testing.T) {
	msg := NewResponse("hello", map[string]string{"session_id": "s1"})

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"type":"response"`, `"content":"hello"`, `"timestamp"`, `"session_info"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("envelope %s missing %s", data, field)
		}
	}

	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", msg.Timestamp, err)
	}
}

func TestSessionInfoOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(NewError("boom"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "session_info") {
		t.Errorf("error envelope should omit session_info: %s", data)
	}
}

func TestSessionClearedAck(t *testing.T) {
	msg := NewSessionCleared()
	if msg.Type != KindSessionCleared {
		t.Errorf("type = %q", msg.Type)
	}
	if msg.Content != SessionClearedText {
		t.Errorf("content = %v, want %q", msg.Content, SessionClearedText)
	}
}
