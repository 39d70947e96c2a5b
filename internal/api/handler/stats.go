package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

type StatsReader interface {
	Stats(ctx context.Context) ([]*models.RuleStat, error)
}

// NewStatsHandler returns an http.HandlerFunc for GET /api/v1/stats.
func NewStatsHandler(s StatsReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats(r.Context())
		if err != nil {
			slog.Error("failed to load rule stats", "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load rule stats", nil)
			return
		}
		response.JSON(w, stats)
	}
}
