// Package tools implements the enrichment data provider layer: weather,
// maps, listings and currency lookups. Providers are consumed by the
// generation backend's tool layer and by prompt construction; the protocol
// core never calls them directly.
package tools

import (
	"context"
	"net/http"
	"time"
)

// defaultTimeout bounds every provider HTTP call. Retry and timeout policy
// live here, opaque to callers.
const defaultTimeout = 10 * time.Second

// Provider is a single enrichment data source with a stable text contract.
type Provider interface {
	// Name returns the capability name exposed in prompts and health output.
	Name() string

	// Query answers a free-text question with formatted text, or an error
	// when the provider cannot serve it.
	Query(ctx context.Context, text string) (string, error)
}

// Config holds the API keys that gate optional providers.
type Config struct {
	OpenWeatherKey string
	GoogleMapsKey  string
	TripAdvisorKey string
}

// Registry exposes the currently enabled providers. Availability is an
// explicit capability query driven by configuration, not an error path.
type Registry struct {
	providers []Provider
}

// NewRegistry builds the provider set for the given configuration. Currency
// conversion uses a keyless API and is always enabled; the rest require
// their API key.
func NewRegistry(cfg Config) *Registry {
	client := &http.Client{Timeout: defaultTimeout}

	r := &Registry{}
	if cfg.OpenWeatherKey != "" {
		r.providers = append(r.providers, &WeatherProvider{apiKey: cfg.OpenWeatherKey, client: client})
	}
	if cfg.GoogleMapsKey != "" {
		r.providers = append(r.providers, &MapsProvider{apiKey: cfg.GoogleMapsKey, client: client})
	}
	if cfg.TripAdvisorKey != "" {
		r.providers = append(r.providers, &TripAdvisorProvider{apiKey: cfg.TripAdvisorKey, client: client})
	}
	r.providers = append(r.providers, &CurrencyProvider{client: client})
	return r
}

// Providers returns the enabled providers.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Has reports whether a capability is enabled.
func (r *Registry) Has(name string) bool {
	for _, p := range r.providers {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// Available lists capability names for prompts, welcome messages, session
// info and the health endpoint. Base capabilities come first, then keyed
// providers, then currency.
func (r *Registry) Available() []string {
	names := []string{"basic_search", "travel_advice"}
	for _, p := range r.providers {
		if p.Name() == "currency" {
			continue
		}
		names = append(names, p.Name())
	}
	return append(names, "currency")
}
