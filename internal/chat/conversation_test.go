package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kiranshivaraju/askbetter/internal/coach"
	"github.com/kiranshivaraju/askbetter/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock Analyzer ---

type mockAnalyzer struct {
	mu    sync.Mutex
	calls []string
	fn    func(q string) models.Feedback
}

func (m *mockAnalyzer) Analyze(_ context.Context, q string) models.Feedback {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(q)
	}
	return models.Feedback{Feedback: "ok"}
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// blockingAnalyzer holds every Analyze call until release is closed.
type blockingAnalyzer struct {
	release chan struct{}
}

func (b *blockingAnalyzer) Analyze(_ context.Context, _ string) models.Feedback {
	<-b.release
	return models.Feedback{Feedback: "done"}
}

// --- tests ---

func TestNewConversation_SeedsGreeting(t *testing.T) {
	c := NewConversation(&mockAnalyzer{}, 0)
	defer c.Close()

	view := c.Snapshot()
	require.Len(t, view.Messages, 1)
	assert.Equal(t, GreetingID, view.Messages[0].ID)
	assert.Equal(t, models.RoleAssistant, view.Messages[0].Role)
	assert.Equal(t, Greeting, view.Messages[0].Content)
	assert.False(t, view.Typing)
}

func TestSubmit_AppendsUserThenAssistant(t *testing.T) {
	c := NewConversation(coach.NewService(nil), 0)
	defer c.Close()

	msg, err := c.Submit("Would you buy this product?")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, msg.Role)
	assert.Equal(t, "Would you buy this product?", msg.Content)
	assert.NotEmpty(t, msg.ID)

	c.Wait()

	view := c.Snapshot()
	require.Len(t, view.Messages, 3)
	assert.Equal(t, msg.ID, view.Messages[1].ID)

	reply := view.Messages[2]
	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.Equal(t, "future-prediction", reply.RuleID)
	assert.Len(t, reply.RefinedQuestions, 3)
	assert.Equal(t, "NN/g: The First Rule of Usability", reply.LinkText)
	assert.NotEqual(t, msg.ID, reply.ID)
	assert.False(t, view.Typing)
}

func TestSubmit_NoMatchReplyHasNoSuggestions(t *testing.T) {
	c := NewConversation(coach.NewService(nil), 0)
	defer c.Close()

	_, err := c.Submit("What design decisions led to this layout choice?")
	require.NoError(t, err)
	c.Wait()

	reply := c.Snapshot().Messages[2]
	assert.Empty(t, reply.RuleID)
	assert.Nil(t, reply.RefinedQuestions)
	assert.Empty(t, reply.Link)
}

func TestSubmit_EmptyIgnored(t *testing.T) {
	a := &mockAnalyzer{}
	c := NewConversation(a, 0)
	defer c.Close()

	for _, text := range []string{"", "   ", "\n\t"} {
		msg, err := c.Submit(text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, msg)
	}
	c.Wait()

	assert.Len(t, c.Snapshot().Messages, 1)
	assert.Equal(t, 0, a.callCount())
}

func TestSubmit_ContentKeptAsSubmitted(t *testing.T) {
	a := &mockAnalyzer{}
	c := NewConversation(a, 0)
	defer c.Close()

	msg, err := c.Submit("  onboarding  ")
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, "  onboarding  ", msg.Content)
	assert.Equal(t, []string{"  onboarding  "}, a.calls)
}

func TestSubmit_BusyWhileTyping(t *testing.T) {
	b := &blockingAnalyzer{release: make(chan struct{})}
	c := NewConversation(b, 0)
	defer c.Close()

	_, err := c.Submit("first question here")
	require.NoError(t, err)
	assert.True(t, c.Snapshot().Typing)

	_, err = c.Submit("second question here")
	assert.ErrorIs(t, err, ErrBusy)

	close(b.release)
	c.Wait()

	view := c.Snapshot()
	assert.False(t, view.Typing)
	require.Len(t, view.Messages, 3)
	assert.Equal(t, "done", view.Messages[2].Content)

	_, err = c.Submit("second question here")
	assert.NoError(t, err)
	c.Wait()
	assert.Len(t, c.Snapshot().Messages, 5)
}

func TestSubmit_ReplyWaitsForDelay(t *testing.T) {
	a := &mockAnalyzer{}
	c := NewConversation(a, 50*time.Millisecond)
	defer c.Close()

	start := time.Now()
	_, err := c.Submit("How do you plan your week?")
	require.NoError(t, err)

	assert.Equal(t, 0, a.callCount())
	assert.Len(t, c.Snapshot().Messages, 2)

	c.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 1, a.callCount())
	assert.Len(t, c.Snapshot().Messages, 3)
}

func TestClose_DropsPendingReply(t *testing.T) {
	a := &mockAnalyzer{}
	c := NewConversation(a, time.Hour)

	_, err := c.Submit("How do you plan your week?")
	require.NoError(t, err)

	c.Close()

	view := c.Snapshot()
	assert.False(t, view.Typing)
	assert.Len(t, view.Messages, 2)
	assert.Equal(t, 0, a.callCount())

	_, err = c.Submit("another question please")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestReply_PanicClearsTyping(t *testing.T) {
	a := &mockAnalyzer{fn: func(string) models.Feedback { panic("boom") }}
	c := NewConversation(a, 0)
	defer c.Close()

	_, err := c.Submit("a question that panics")
	require.NoError(t, err)
	c.Wait()

	view := c.Snapshot()
	assert.False(t, view.Typing)
	assert.Len(t, view.Messages, 2)
}

func TestSnapshot_IsCopy(t *testing.T) {
	c := NewConversation(coach.NewService(nil), 0)
	defer c.Close()

	_, err := c.Submit("checkout")
	require.NoError(t, err)
	c.Wait()

	view := c.Snapshot()
	view.Messages[0].Content = "changed"
	view.Messages[2].RefinedQuestions[0] = "changed"

	fresh := c.Snapshot()
	assert.Equal(t, Greeting, fresh.Messages[0].Content)
	assert.Equal(t, "Tell me about your experience with checkout.", fresh.Messages[2].RefinedQuestions[0])
}

func TestNewConversation_NegativeDelay(t *testing.T) {
	c := NewConversation(&mockAnalyzer{}, -time.Second)
	defer c.Close()

	_, err := c.Submit("How do you plan your week?")
	require.NoError(t, err)
	c.Wait()
	assert.Len(t, c.Snapshot().Messages, 3)
}
