package gateway

import (
	"encoding/json"
	"net/http"

	"chartkit/internal/indicator"
)

// SetCORS sets CORS headers for REST endpoints.
func SetCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// RegisterRoutes registers the gateway's HTTP routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, hub *Hub) {
	// WebSocket endpoint
	mux.HandleFunc("/ws", hub.HandleWS)

	// REST: indicator catalog with input specs, for building settings UIs
	mux.HandleFunc("/api/indicators", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		type indicatorInfo struct {
			Name    string                `json:"name"`
			Overlay bool                  `json:"overlay"`
			Inputs  []indicator.InputSpec `json:"inputs"`
		}
		var out []indicatorInfo
		for _, name := range indicator.Names() {
			def, ok := indicator.Get(name)
			if !ok {
				continue
			}
			out = append(out, indicatorInfo{
				Name:    def.Name,
				Overlay: def.Overlay,
				Inputs:  def.Inputs,
			})
		}
		json.NewEncoder(w).Encode(out)
	})

	// REST: latest rendered scene, for clients that poll instead of
	// holding a socket
	mux.HandleFunc("/api/scene", func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w)
		w.Header().Set("Content-Type", "application/json")

		hub.mu.RLock()
		latest := hub.latest
		hub.mu.RUnlock()

		if latest == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write(latest)
	})
}
