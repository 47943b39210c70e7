package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wayfare/wayfare/internal/domain"
	"github.com/wayfare/wayfare/internal/memory"
)

func TestOpenAIClientGenerate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "DESTINATIONS:\nParis - City of lights"}}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}

	history := []domain.Message{
		domain.NewMessage(domain.RoleSystem, memory.Preamble),
		domain.NewMessage(domain.RoleUser, "hi"),
		domain.NewMessage(domain.RoleAssistant, "hello"),
	}
	reply, err := client.Generate(context.Background(), "system prompt", history, "enriched input")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "DESTINATIONS:\nParis - City of lights" {
		t.Errorf("reply = %q", reply)
	}

	// system prompt + 2 history entries (preamble skipped) + current input.
	if len(gotReq.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != domain.RoleSystem || gotReq.Messages[0].Content != "system prompt" {
		t.Errorf("first message = %+v", gotReq.Messages[0])
	}
	if last := gotReq.Messages[3]; last.Role != domain.RoleUser || last.Content != "enriched input" {
		t.Errorf("last message = %+v", last)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
}

func TestOpenAIClientRetriesUpToMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, MaxAttempts: 3}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}

	if _, err := client.Generate(context.Background(), "sys", nil, "input"); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("endpoint called %d times, want 3", got)
	}
}

func TestOpenAIClientRecoversOnRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewOpenAIClient failed: %v", err)
	}

	reply, err := client.Generate(context.Background(), "sys", nil, "input")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q", reply)
	}
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(OpenAIConfig{}, nil); err == nil {
		t.Error("expected error for missing API key")
	}
}
