package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the chat log. Assistant replies carry the
// analysis fields; user messages only carry Content.
type Message struct {
	ID               string    `json:"id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	RuleID           string    `json:"rule_id,omitempty"`
	RefinedQuestions []string  `json:"refined_questions,omitempty"`
	Link             string    `json:"link,omitempty"`
	LinkText         string    `json:"link_text,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConversationView is a point-in-time copy of the chat log.
type ConversationView struct {
	Messages []Message `json:"messages"`
	Typing   bool      `json:"typing"`
}
