package models

import "time"

// RuleStat counts how often a rule produced the feedback for a question.
// RuleID "none" counts questions that matched no rule.
type RuleStat struct {
	RuleID    string    `db:"rule_id"     json:"rule_id"`
	Hits      int64     `db:"hits"        json:"hits"`
	LastHitAt time.Time `db:"last_hit_at" json:"last_hit_at"`
}
