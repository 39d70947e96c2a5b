package handler

import (
	"net/http"

	"github.com/kiranshivaraju/askbetter/internal/api/response"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

type RuleLister interface {
	Rules() []models.RuleInfo
}

// NewRulesHandler returns an http.HandlerFunc for GET /api/v1/rules.
func NewRulesHandler(l RuleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, l.Rules())
	}
}
