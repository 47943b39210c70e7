package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/wayfare/wayfare/internal/tools"
	"github.com/wayfare/wayfare/internal/ws"
)

func TestHealthReportsCapabilities(t *testing.T) {
	h := NewHandler(tools.NewRegistry(tools.Config{OpenWeatherKey: "k"}), ws.NewSessionManager())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.ActiveSessions != 0 {
		t.Errorf("active_sessions = %d, want 0", body.ActiveSessions)
	}
	if !body.Features["weather_data"] {
		t.Error("weather_data should be enabled when key is set")
	}
	if body.Features["place_search"] {
		t.Error("place_search should be disabled without a key")
	}
	if !body.Features["currency_conversion"] {
		t.Error("currency_conversion should always be enabled")
	}

	want := []string{"basic_search", "travel_advice", "weather", "currency"}
	if len(body.Tools) != len(want) {
		t.Fatalf("tools = %v, want %v", body.Tools, want)
	}
	for i, name := range want {
		if body.Tools[i] != name {
			t.Errorf("tools[%d] = %q, want %q", i, body.Tools[i], name)
		}
	}
}

func TestErrorWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, 400, "bad request")

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["error"] != "bad request" {
		t.Errorf("error = %q, want %q", body["error"], "bad request")
	}
}
