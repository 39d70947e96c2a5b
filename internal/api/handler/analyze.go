package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

// maxBodyBytes caps request bodies; questions are short free text.
const maxBodyBytes = 16 << 10

// QuestionAnalyzer defines the interface the analyze handler depends on.
type QuestionAnalyzer interface {
	Analyze(ctx context.Context, question string) models.Feedback
}

// NewAnalyzeHandler returns an http.HandlerFunc for POST /api/v1/analyze.
// An empty question is analyzed like any other text.
func NewAnalyzeHandler(a QuestionAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Question *string `json:"question"`
		}
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Question == nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "question is required", nil)
			return
		}

		response.JSON(w, a.Analyze(r.Context(), *req.Question))
	}
}

// decodeBody decodes a JSON body into v, writing a 4xx error and returning
// false when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large", nil)
			return false
		}
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}
