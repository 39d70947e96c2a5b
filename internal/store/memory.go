package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kiranshivaraju/askbetter/pkg/models"
)

// MemoryStore keeps counters in process memory. Used when DATABASE_URL is unset.
type MemoryStore struct {
	mu    sync.Mutex
	stats map[string]*models.RuleStat
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stats: make(map[string]*models.RuleStat),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) RecordRuleHit(_ context.Context, ruleID string) error {
	if ruleID == "" {
		return ErrInvalidRuleID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[ruleID]
	if !ok {
		st = &models.RuleStat{RuleID: ruleID}
		s.stats[ruleID] = st
	}
	st.Hits++
	st.LastHitAt = s.now()
	return nil
}

func (s *MemoryStore) ListRuleStats(_ context.Context) ([]*models.RuleStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.RuleStat, 0, len(s.stats))
	for _, st := range s.stats {
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hits != out[j].Hits {
			return out[i].Hits > out[j].Hits
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out, nil
}
