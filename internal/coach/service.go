package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/askbetter/internal/heuristics"
	"github.com/kiranshivaraju/askbetter/internal/metrics"
	"github.com/kiranshivaraju/askbetter/internal/store"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

const recordTimeout = 2 * time.Second

// Service runs the question heuristics and tracks which rules fire.
type Service struct {
	store store.Store
}

// NewService creates a new Service. A nil store disables hit recording.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Analyze returns feedback for question. It never fails: a stats store
// error is logged and the feedback is still returned.
func (s *Service) Analyze(ctx context.Context, question string) models.Feedback {
	res := heuristics.Analyze(question)

	label := res.RuleID
	if !res.Matched() {
		label = metrics.NoRuleLabel
	}
	metrics.RuleMatches.WithLabelValues(label).Inc()
	slog.Debug("question analyzed", "rule", label)

	if s.store != nil {
		recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
		defer cancel()
		if err := s.store.RecordRuleHit(recordCtx, label); err != nil {
			slog.Warn("failed to record rule hit", "rule", label, "error", err)
		}
	}

	return models.Feedback{
		RuleID:           res.RuleID,
		Feedback:         res.Feedback,
		RefinedQuestions: res.RefinedQuestions,
		Link:             res.Link,
		LinkText:         res.LinkText,
	}
}

// Rules lists the heuristics in evaluation order, starting at position 1.
func (s *Service) Rules() []models.RuleInfo {
	rules := heuristics.Rules()
	out := make([]models.RuleInfo, 0, len(rules))
	for i, r := range rules {
		out = append(out, models.RuleInfo{
			Position: i + 1,
			ID:       r.ID,
			Name:     r.Name,
			Advice:   r.Advice,
			Link:     r.Link,
			LinkText: r.LinkText,
		})
	}
	return out
}

// Stats returns the recorded rule hit counters.
func (s *Service) Stats(ctx context.Context) ([]*models.RuleStat, error) {
	if s.store == nil {
		return []*models.RuleStat{}, nil
	}
	stats, err := s.store.ListRuleStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rule stats: %w", err)
	}
	return stats, nil
}
