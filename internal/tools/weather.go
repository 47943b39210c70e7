package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherProvider answers weather questions via the OpenWeatherMap API.
type WeatherProvider struct {
	apiKey  string
	client  *http.Client
	baseURL string // test override
}

// Name implements Provider.
func (p *WeatherProvider) Name() string { return "weather" }

// Query treats the input as a location ("city" or "city, country") and
// returns current conditions.
func (p *WeatherProvider) Query(ctx context.Context, location string) (string, error) {
	base := p.baseURL
	if base == "" {
		base = openWeatherURL
	}

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build weather request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch weather for %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather API returned status %d for %q", resp.StatusCode, location)
	}

	var data struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}

	description := ""
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}

	out := fmt.Sprintf("Weather in %s, %s:\nTemperature: %.1f°C\nConditions: %s\nHumidity: %d%%",
		data.Name, data.Sys.Country, data.Main.Temp, description, data.Main.Humidity)
	if data.Wind.Speed > 0 {
		out += fmt.Sprintf("\nWind Speed: %.1f m/s", data.Wind.Speed)
	}
	return out, nil
}
