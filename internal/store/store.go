package store

import (
	"context"
	"errors"

	"github.com/kiranshivaraju/askbetter/pkg/models"
)

var ErrInvalidRuleID = errors.New("rule id is required")

// Store persists per-rule hit counters. Question text is never stored.
// Implementations must be safe for concurrent use.
type Store interface {
	Ping(ctx context.Context) error
	RecordRuleHit(ctx context.Context, ruleID string) error
	ListRuleStats(ctx context.Context) ([]*models.RuleStat, error)
}
