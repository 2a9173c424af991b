package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gridforge.dev/internal/codec"
	"gridforge.dev/internal/generation"
	"gridforge.dev/internal/grid"
	"gridforge.dev/internal/models"
	"gridforge.dev/internal/services"
)

// WorldHandler handles world generation and retrieval endpoints.
type WorldHandler struct {
	worldService *services.WorldService
}

// NewWorldHandler creates a new WorldHandler.
func NewWorldHandler(ws *services.WorldService) *WorldHandler {
	return &WorldHandler{worldService: ws}
}

// GenerateWorld handles POST /api/worlds - generates (or warms) the world
// for a seed.
func (h *WorldHandler) GenerateWorld(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.worldService.Get(req.Seed); err != nil {
		respondGenerationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, models.GenerateResponse{
		Seed:     req.Seed,
		WorldURL: fmt.Sprintf("/api/worlds/%d", req.Seed),
		StatsURL: fmt.Sprintf("/api/worlds/%d/stats", req.Seed),
	})
}

// GetWorld handles GET /api/worlds/{seed} - returns the encoded world.
func (h *WorldHandler) GetWorld(w http.ResponseWriter, r *http.Request) {
	seed, ok := parseSeed(w, r)
	if !ok {
		return
	}

	wld, err := h.worldService.Get(seed)
	if err != nil {
		respondGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(codec.Encode(wld))
}

// GetStats handles GET /api/worlds/{seed}/stats - returns coverage
// percentages.
func (h *WorldHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	seed, ok := parseSeed(w, r)
	if !ok {
		return
	}

	summary, err := h.worldService.Summary(seed)
	if err != nil {
		respondGenerationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func parseSeed(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	seed, err := strconv.ParseUint(chi.URLParam(r, "seed"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid seed")
		return 0, false
	}
	return seed, true
}

// respondGenerationError maps the generation error taxonomy onto status
// codes: misconfiguration is the client's fault, an unsatisfiable pipeline
// is a conflict with the configured stages, everything else is ours.
func respondGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grid.ErrInvalidDimension):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, generation.ErrUnsatisfiable):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
