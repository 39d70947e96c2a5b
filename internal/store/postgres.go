package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) RecordRuleHit(ctx context.Context, ruleID string) error {
	if ruleID == "" {
		return ErrInvalidRuleID
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rule_hits (rule_id, hits, last_hit_at)
		 VALUES ($1, 1, NOW())
		 ON CONFLICT (rule_id) DO UPDATE
		 SET hits = rule_hits.hits + 1, last_hit_at = NOW()`, ruleID)
	if err != nil {
		return fmt.Errorf("record rule hit: %w", err)
	}
	return nil
}

// ListRuleStats returns all counters ordered by hits descending, then rule id.
func (s *PostgresStore) ListRuleStats(ctx context.Context) ([]*models.RuleStat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT rule_id, hits, last_hit_at FROM rule_hits ORDER BY hits DESC, rule_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rule stats: %w", err)
	}
	defer rows.Close()

	stats := []*models.RuleStat{}
	for rows.Next() {
		var st models.RuleStat
		if err := rows.Scan(&st.RuleID, &st.Hits, &st.LastHitAt); err != nil {
			return nil, fmt.Errorf("scan rule stat: %w", err)
		}
		stats = append(stats, &st)
	}
	return stats, rows.Err()
}
