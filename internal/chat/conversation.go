package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/askbetter/internal/metrics"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

const (
	GreetingID = "init-1"
	Greeting   = "Hi there! I'm here to help you ask better UX research questions. What specific question were you planning to ask your users?"

	DefaultReplyDelay = 1500 * time.Millisecond
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("assistant is still replying")
	ErrClosed       = errors.New("conversation closed")
)

// Analyzer produces feedback for a submitted question.
type Analyzer interface {
	Analyze(ctx context.Context, question string) models.Feedback
}

// Conversation is an append-only chat log. Only one submission may be
// outstanding at a time; the reply is appended after a fixed delay.
type Conversation struct {
	analyzer Analyzer
	delay    time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	messages []models.Message
	typing   bool
	closed   bool
}

// NewConversation creates a log seeded with the greeting message.
// A negative delay is treated as zero.
func NewConversation(a Analyzer, delay time.Duration) *Conversation {
	if delay < 0 {
		delay = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Conversation{
		analyzer: a,
		delay:    delay,
		now:      func() time.Time { return time.Now().UTC() },
		ctx:      ctx,
		cancel:   cancel,
	}
	c.messages = []models.Message{{
		ID:        GreetingID,
		Role:      models.RoleAssistant,
		Content:   Greeting,
		CreatedAt: c.now(),
	}}
	return c
}

// Submit appends a user message and schedules the assistant reply.
// Whitespace-only text is rejected with ErrEmptyMessage and nothing is appended.
func (c *Conversation) Submit(text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		metrics.ChatSubmissions.WithLabelValues("empty").Inc()
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.typing {
		metrics.ChatSubmissions.WithLabelValues("busy").Inc()
		return nil, ErrBusy
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: c.now(),
	}
	c.messages = append(c.messages, msg)
	c.typing = true
	metrics.ChatSubmissions.WithLabelValues("accepted").Inc()

	c.wg.Add(1)
	go c.reply(text, time.Now())

	return &msg, nil
}

// reply waits out the typing delay, then appends the analysis. It always
// clears the typing flag, even if the analyzer panics.
func (c *Conversation) reply(text string, submitted time.Time) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in conversation reply", "error", r)
		}
		c.mu.Lock()
		c.typing = false
		c.mu.Unlock()
	}()

	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.ctx.Done():
			slog.Info("conversation closed before reply was sent")
			return
		}
	}

	fb := c.analyzer.Analyze(c.ctx, text)

	c.mu.Lock()
	c.messages = append(c.messages, models.Message{
		ID:               uuid.NewString(),
		Role:             models.RoleAssistant,
		Content:          fb.Feedback,
		RuleID:           fb.RuleID,
		RefinedQuestions: fb.RefinedQuestions,
		Link:             fb.Link,
		LinkText:         fb.LinkText,
		CreatedAt:        c.now(),
	})
	c.mu.Unlock()

	metrics.ReplyDuration.Observe(time.Since(submitted).Seconds())
}

// Snapshot returns a copy of the log and the typing flag.
func (c *Conversation) Snapshot() models.ConversationView {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]models.Message, len(c.messages))
	copy(msgs, c.messages)
	for i := range msgs {
		if msgs[i].RefinedQuestions != nil {
			msgs[i].RefinedQuestions = append([]string(nil), msgs[i].RefinedQuestions...)
		}
	}
	return models.ConversationView{Messages: msgs, Typing: c.typing}
}

// Wait blocks until no reply is outstanding.
func (c *Conversation) Wait() {
	c.wg.Wait()
}

// Close drops any pending reply and rejects further submissions.
func (c *Conversation) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
