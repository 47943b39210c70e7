package api

import "net/http"

// healthResponse describes the running service.
type healthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	ActiveSessions int               `json:"active_sessions"`
	Features       map[string]bool   `json:"features"`
	Tools          []string          `json:"tools"`
	Endpoints      map[string]string `json:"endpoints"`
}

// Health reports service status, the available travel tools, and the
// number of connected sessions.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	available := h.registry.Available()

	features := map[string]bool{
		"conversational_memory": true,
		"structured_responses":  true,
		"preference_tracking":   true,
		"weather_data":          h.registry.Has("weather"),
		"place_search":          h.registry.Has("maps"),
		"reviews":               h.registry.Has("tripadvisor"),
		"currency_conversion":   h.registry.Has("currency"),
	}

	JSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		Service:        "wayfare-travel-agent",
		ActiveSessions: h.sm.Count(),
		Features:       features,
		Tools:          available,
		Endpoints: map[string]string{
			"websocket": "/ws",
			"health":    "/health",
		},
	})
}
