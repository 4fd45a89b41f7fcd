package handler

import (
	"context"
	"net/http"
	"time"

	"clothing-store/internal/database"

	"github.com/rs/zerolog"
)

const healthTimeout = 3 * time.Second

// HealthResponse reports service and store state.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler serves the health endpoint.
type HealthHandler struct {
	checker database.Checker
	logger  zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(checker database.Checker, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /health. A failed ping triggers one reconnect attempt
// before the store is reported as disconnected.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("database ping failed, reconnecting")

		if err := h.checker.Reconnect(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database unavailable")
			writeJSON(w, http.StatusInternalServerError, HealthResponse{Status: "error", Database: "disconnected"})
			return
		}

		h.logger.Info().Msg("database connection re-established")
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "connected"})
}
