package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	geocodeURL        = "https://maps.googleapis.com/maps/api/geocode/json"
	distanceMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
)

// MapsProvider answers location and distance questions via the Google Maps
// APIs.
type MapsProvider struct {
	apiKey       string
	client       *http.Client
	geocodeBase  string // test override
	distanceBase string // test override
}

// Name implements Provider.
func (p *MapsProvider) Name() string { return "maps" }

// Query handles either "distance from A to B" or a plain place name.
func (p *MapsProvider) Query(ctx context.Context, text string) (string, error) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "distance from") && strings.Contains(lower, " to ") {
		return p.distance(ctx, text)
	}
	return p.placeInfo(ctx, text)
}

func (p *MapsProvider) distance(ctx context.Context, query string) (string, error) {
	lower := strings.ToLower(query)
	fromIdx := strings.Index(lower, "distance from") + len("distance from")
	toIdx := strings.Index(lower, " to ")
	if toIdx < fromIdx {
		return "", fmt.Errorf("distance query %q must look like 'distance from A to B'", query)
	}
	origin := strings.TrimSpace(query[fromIdx:toIdx])
	destination := strings.TrimSpace(query[toIdx+len(" to "):])

	base := p.distanceBase
	if base == "" {
		base = distanceMatrixURL
	}
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("key", p.apiKey)
	q.Set("units", "metric")

	var data struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Text string `json:"text"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := p.getJSON(ctx, base+"?"+q.Encode(), &data); err != nil {
		return "", err
	}
	if data.Status != "OK" || len(data.Rows) == 0 || len(data.Rows[0].Elements) == 0 {
		return "", fmt.Errorf("no distance result for %q to %q", origin, destination)
	}
	el := data.Rows[0].Elements[0]
	if el.Status != "OK" {
		return "", fmt.Errorf("distance lookup failed with status %s", el.Status)
	}

	return fmt.Sprintf("Distance from %s to %s:\nDistance: %s\nDriving Time: %s",
		origin, destination, el.Distance.Text, el.Duration.Text), nil
}

func (p *MapsProvider) placeInfo(ctx context.Context, location string) (string, error) {
	base := p.geocodeBase
	if base == "" {
		base = geocodeURL
	}
	q := url.Values{}
	q.Set("address", location)
	q.Set("key", p.apiKey)

	var data struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := p.getJSON(ctx, base+"?"+q.Encode(), &data); err != nil {
		return "", err
	}
	if data.Status != "OK" || len(data.Results) == 0 {
		return "", fmt.Errorf("no location result for %q", location)
	}
	r := data.Results[0]

	return fmt.Sprintf("Location: %s\nCoordinates: %.4f, %.4f",
		r.FormattedAddress, r.Geometry.Location.Lat, r.Geometry.Location.Lng), nil
}

func (p *MapsProvider) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build maps request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch maps data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode maps response: %w", err)
	}
	return nil
}
