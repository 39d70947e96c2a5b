package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultFeedback is returned when no rule matches.
const DefaultFeedback = "This looks like a solid, open-ended question! It's neutral and invites the user to share their story."

// Patterns compiled once at package init. All matching is case-insensitive.
// RE2 \s is ASCII only, so word gaps also accept Unicode spaces such as NBSP.
var (
	reWhy          = regexp.MustCompile(`(?i)^why\b`)
	reWouldWill    = regexp.MustCompile(`(?i)\b(would|will)[\s\p{Z}]+you\b`)
	reBuyPay       = regexp.MustCompile(`(?i)\b(buy|pay)\b`)
	reJudgmentVerb = regexp.MustCompile(`(?i)\b(do|don't|did|didn't|is|isn't)[\s\p{Z}]+you[\s\p{Z}]+(like|love|hate|think)\b`)
	reJudgmentWord = regexp.MustCompile(`(?i)\b(good|bad|easy|hard)\b`)
	reClosedStart  = regexp.MustCompile(`(?i)^(did|do|does|is|isn't|are|aren't|have|has|was|were|can|could|should|will|won't)\b`)
	reConjunction  = regexp.MustCompile(`(?i)\b(and|or)\b`)
)

// doubleBarreledMinLen is the length a question must exceed before a
// conjunction marks it as asking about two things.
const doubleBarreledMinLen = 50

// Rule is one named pattern check with its advice and rewrite step.
type Rule struct {
	ID       string
	Name     string
	Advice   string
	Link     string
	LinkText string
	Check    func(q string) bool
	Refine   func(q string) []string
}

// Result is the outcome of analyzing a single question.
// RefinedQuestions, Link and LinkText are empty when no rule matched.
type Result struct {
	RuleID           string   `json:"rule_id,omitempty"`
	Feedback         string   `json:"feedback"`
	RefinedQuestions []string `json:"refined_questions,omitempty"`
	Link             string   `json:"link,omitempty"`
	LinkText         string   `json:"link_text,omitempty"`
}

// Matched reports whether a rule produced this result.
func (r Result) Matched() bool {
	return r.RuleID != ""
}

// rules is evaluated in order; the first rule whose Check returns true wins.
var rules = []Rule{
	{
		ID:       "too-short",
		Name:     "Too Short",
		Advice:   "This looks like a topic rather than a specific question. Validating a topic is great, but to get actionable insights, try asking about a specific experience.",
		Link:     "https://www.nngroup.com/articles/user-interviews/",
		LinkText: "NN/g: User Interviews",
		Check: func(q string) bool {
			return len(strings.Fields(q)) < 2
		},
		Refine: func(q string) []string {
			return []string{
				"Tell me about your experience with " + q + ".",
				"Walk me through how you typically handle " + q + ".",
				"What are your main challenges regarding " + q + "?",
			}
		},
	},
	{
		ID:       "why-question",
		Name:     "Avoid 'Why'",
		Advice:   "Asking 'Why' can sometimes make users feel defensive or lead them to rationalize their behavior instead of describing it. 'What' or 'How' questions often yield better behavioral data.",
		Link:     "https://www.nngroup.com/articles/interviewing-users/",
		LinkText: "NN/g: Interviewing Users",
		Check:    reWhy.MatchString,
		Refine: func(string) []string {
			return []string{
				"What was your goal when you made that decision?",
				"Walk me through your thought process.",
				"What factors influenced your choice?",
			}
		},
	},
	{
		ID:       "future-prediction",
		Name:     "Avoid Future Prediction",
		Advice:   "Users are notoriously bad at predicting their future behavior. Instead of asking what they *would* do, ask about what they *have done* in the past. This provides more reliable data based on actual behavior rather than aspirational intent.",
		Link:     "https://www.nngroup.com/articles/first-rule-of-usability-dont-listen-to-users/",
		LinkText: "NN/g: The First Rule of Usability",
		Check: func(q string) bool {
			return reWouldWill.MatchString(q) || reBuyPay.MatchString(q)
		},
		Refine: func(q string) []string {
			if reBuyPay.MatchString(q) {
				return []string{
					"Tell me about the last time you bought a product like this. What was your decision process?",
					"What factors influenced your decision the last time you purchased [Product Category]?",
					"Can you walk me through your most recent purchase experience?",
				}
			}
			return []string{
				"Tell me about a time when you encountered a similar situation in the past.",
				"Can you describe the last time you used a feature like this?",
				"Walk me through your actual workflow when you last performed this task.",
			}
		},
	},
	{
		ID:       "leading-question",
		Name:     "Avoid Leading Questions",
		Advice:   "This question might be leading the user to a specific answer by embedding a judgment (like 'good', 'easy', or 'like'). Neutral questions allow users to express their true feelings without bias.",
		Link:     "https://www.nngroup.com/articles/10-survey-challenges/",
		LinkText: "NN/g: Avoiding Leading Questions in Surveys",
		Check: func(q string) bool {
			return reJudgmentVerb.MatchString(q) || reJudgmentWord.MatchString(q)
		},
		Refine: func(string) []string {
			return []string{
				"How would you describe your experience with this feature?",
				"What are your thoughts on this interface?",
				"Talk me through your reaction to this screen.",
			}
		},
	},
	{
		ID:       "closed-ended",
		Name:     "Open vs. Closed",
		Advice:   "This looks like a closed-ended (Yes/No) question. While useful for quant data, open-ended questions yield richer insights in qualitative interviews by encouraging storytelling.",
		Link:     "https://www.nngroup.com/articles/open-ended-questions/",
		LinkText: "NN/g: Open-Ended vs. Closed-Ended Questions",
		Check:    reClosedStart.MatchString,
		Refine: func(string) []string {
			return []string{
				"Walk me through how you...",
				"Tell me more about...",
				"What was your experience when...",
			}
		},
	},
	{
		ID:       "double-barreled",
		Name:     "One Thing at a Time",
		Advice:   "This might be a double-barreled question asking about multiple things at once. Splitting it ensures you get clear answers for each distinct topic.",
		Link:     "https://www.nngroup.com/articles/10-survey-challenges/",
		LinkText: "NN/g: Avoiding Double-Barreled Questions",
		Check: func(q string) bool {
			// Length is in runes, not UTF-16 units, so astral characters
			// such as emoji count once.
			return reConjunction.MatchString(q) && utf8.RuneCountInString(q) > doubleBarreledMinLen
		},
		Refine: func(string) []string {
			return []string{
				"Let's focus on one aspect first. Tell me about [Topic A].",
				"Regarding [Topic B], how do you feel about...",
				"Can we break that down? First, what are your thoughts on...",
			}
		},
	},
}

// Analyze trims question and returns the feedback of the first matching rule,
// or the default affirmative result when none match. Empty input matches
// the too-short rule.
func Analyze(question string) Result {
	trimmed := strings.TrimSpace(question)

	for _, r := range rules {
		if r.Check(trimmed) {
			return Result{
				RuleID:           r.ID,
				Feedback:         r.Advice,
				RefinedQuestions: r.Refine(trimmed),
				Link:             r.Link,
				LinkText:         r.LinkText,
			}
		}
	}

	return Result{Feedback: DefaultFeedback}
}

// Rules returns the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
