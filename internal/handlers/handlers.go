// Package handlers wires the world API onto a chi router.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gridforge.dev/internal/config"
	"gridforge.dev/internal/middleware"
	"gridforge.dev/internal/services"
)

// SetupRoutes configures all routes and returns the router.
func SetupRoutes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)

	worldService := services.NewWorldService(cfg.Pipeline, cfg.Width, cfg.Height, cfg.DataPath)
	worldHandler := NewWorldHandler(worldService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/worlds", worldHandler.GenerateWorld)
		r.Get("/worlds/{seed}", worldHandler.GetWorld)
		r.Get("/worlds/{seed}/stats", worldHandler.GetStats)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// respondError writes an error JSON response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
