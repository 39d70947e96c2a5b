// Package models contains shared data models used across the askbetter codebase.
package models

// Feedback is the analysis result for one question as exposed to clients.
// RefinedQuestions, Link and LinkText are omitted when no rule matched.
type Feedback struct {
	RuleID           string   `json:"rule_id,omitempty"`
	Feedback         string   `json:"feedback"`
	RefinedQuestions []string `json:"refined_questions,omitempty"`
	Link             string   `json:"link,omitempty"`
	LinkText         string   `json:"link_text,omitempty"`
}

// RuleInfo describes one heuristic rule, in evaluation order.
type RuleInfo struct {
	Position int    `json:"position"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Advice   string `json:"advice"`
	Link     string `json:"link"`
	LinkText string `json:"link_text"`
}
