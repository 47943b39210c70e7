package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const tripAdvisorSearchURL = "https://api.content.tripadvisor.com/api/v1/location/search"

// searchTypes normalizes what the user asked for to a TripAdvisor category.
var searchTypes = map[string]string{
	"restaurant":    "restaurants",
	"restaurants":   "restaurants",
	"food":          "restaurants",
	"dining":        "restaurants",
	"hotel":         "hotels",
	"hotels":        "hotels",
	"accommodation": "hotels",
	"stay":          "hotels",
	"attraction":    "attractions",
	"attractions":   "attractions",
	"things to do":  "attractions",
	"activities":    "attractions",
	"sightseeing":   "attractions",
}

// TripAdvisorProvider searches restaurants, hotels and attractions through
// the TripAdvisor content API.
type TripAdvisorProvider struct {
	apiKey  string
	client  *http.Client
	baseURL string // test override
}

// Name implements Provider.
func (p *TripAdvisorProvider) Name() string { return "tripadvisor" }

// Query expects "TYPE in LOCATION", e.g. "restaurants in Paris".
func (p *TripAdvisorProvider) Query(ctx context.Context, text string) (string, error) {
	category, location, err := parseSearchQuery(text)
	if err != nil {
		return "", err
	}

	base := p.baseURL
	if base == "" {
		base = tripAdvisorSearchURL
	}
	q := url.Values{}
	q.Set("key", p.apiKey)
	q.Set("searchQuery", location)
	q.Set("category", category)
	q.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build tripadvisor request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search tripadvisor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tripadvisor API returned status %d", resp.StatusCode)
	}

	var data struct {
		Data []struct {
			Name       string `json:"name"`
			AddressObj struct {
				AddressString string `json:"address_string"`
			} `json:"address_obj"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode tripadvisor response: %w", err)
	}
	if len(data.Data) == 0 {
		return "", fmt.Errorf("no %s found in %s", category, location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %s in %s:\n", category, location)
	for i, place := range data.Data {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%s - %s\n", place.Name, place.AddressObj.AddressString)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// parseSearchQuery splits "TYPE in LOCATION" and normalizes the type.
func parseSearchQuery(text string) (category, location string, err error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	kind, loc, ok := strings.Cut(lower, " in ")
	if !ok {
		return "", "", fmt.Errorf("search query %q must look like 'restaurants in Paris'", text)
	}
	category, ok = searchTypes[strings.TrimSpace(kind)]
	if !ok {
		return "", "", fmt.Errorf("unknown search type %q", kind)
	}
	return category, strings.TrimSpace(loc), nil
}
