package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRegistryAvailability(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			"no keys",
			Config{},
			[]string{"basic_search", "travel_advice", "currency"},
		},
		{
			"weather only",
			Config{OpenWeatherKey: "k"},
			[]string{"basic_search", "travel_advice", "weather", "currency"},
		},
		{
			"all keys",
			Config{OpenWeatherKey: "k", GoogleMapsKey: "k", TripAdvisorKey: "k"},
			[]string{"basic_search", "travel_advice", "weather", "maps", "tripadvisor", "currency"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.cfg)
			if got := r.Available(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistryHas(t *testing.T) {
	r := NewRegistry(Config{OpenWeatherKey: "k"})
	if !r.Has("weather") {
		t.Error("expected weather to be enabled")
	}
	if !r.Has("currency") {
		t.Error("expected currency to always be enabled")
	}
	if r.Has("maps") {
		t.Error("maps should be disabled without an API key")
	}
}

func TestWeatherProviderQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Tokyo" {
			t.Errorf("location query = %q, want Tokyo", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "Tokyo",
			"sys": {"country": "JP"},
			"main": {"temp": 21.5, "humidity": 60},
			"weather": [{"description": "clear sky"}],
			"wind": {"speed": 3.2}
		}`))
	}))
	defer srv.Close()

	p := &WeatherProvider{apiKey: "test", client: srv.Client(), baseURL: srv.URL}
	got, err := p.Query(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, want := range []string{"Tokyo, JP", "21.5°C", "clear sky", "60%", "3.2 m/s"} {
		if !strings.Contains(got, want) {
			t.Errorf("weather output missing %q:\n%s", want, got)
		}
	}
}

func TestCurrencyProviderQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/USD") {
			t.Errorf("path = %q, want /USD suffix", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates": {"EUR": 0.9}}`))
	}))
	defer srv.Close()

	p := &CurrencyProvider{client: srv.Client(), baseURL: srv.URL + "/"}
	got, err := p.Query(context.Background(), "100 usd to eur")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !strings.Contains(got, "100.00 USD = 90.00 EUR") {
		t.Errorf("unexpected conversion output: %s", got)
	}
}

func TestParseCurrencyQuery(t *testing.T) {
	tests := []struct {
		query   string
		wantErr bool
	}{
		{"100 USD to EUR", false},
		{"50 usd to eur", false},
		{"convert please", true},
		{"abc USD to EUR", true},
		{"100 USD EUR", true},
	}

	for _, tt := range tests {
		_, _, _, err := parseCurrencyQuery(tt.query)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCurrencyQuery(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
		}
	}
}

func TestParseSearchQuery(t *testing.T) {
	category, location, err := parseSearchQuery("Restaurants in Paris")
	if err != nil {
		t.Fatalf("parseSearchQuery failed: %v", err)
	}
	if category != "restaurants" || location != "paris" {
		t.Errorf("got (%q, %q), want (restaurants, paris)", category, location)
	}

	if _, _, err := parseSearchQuery("something random"); err == nil {
		t.Error("expected error for query without ' in '")
	}
}

func TestProviderTimeoutIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := &WeatherProvider{
		apiKey:  "test",
		client:  &http.Client{Timeout: 50 * time.Millisecond},
		baseURL: srv.URL,
	}
	if _, err := p.Query(context.Background(), "Tokyo"); err == nil {
		t.Error("expected timeout error")
	}
}
