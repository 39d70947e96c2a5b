package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kiranshivaraju/askbetter/internal/chat"
	"github.com/kiranshivaraju/askbetter/pkg/models"
)

// --- mocks ---

type mockAnalyzer struct {
	got []string
}

func (m *mockAnalyzer) Analyze(_ context.Context, q string) models.Feedback {
	m.got = append(m.got, q)
	return models.Feedback{RuleID: "too-short", Feedback: "advice for " + q}
}

type mockConversation struct {
	submitErr error
	submitted []string
	view      models.ConversationView
}

func (m *mockConversation) Submit(text string) (*models.Message, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = append(m.submitted, text)
	return &models.Message{ID: "m-1", Role: models.RoleUser, Content: text}, nil
}

func (m *mockConversation) Snapshot() models.ConversationView { return m.view }

type mockStats struct {
	stats []*models.RuleStat
	err   error
}

func (m *mockStats) Stats(_ context.Context) ([]*models.RuleStat, error) { return m.stats, m.err }

// --- helpers ---

func jsonReq(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func parseData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	env := struct {
		Data any `json:"data"`
	}{Data: into}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func parseErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Error.Code
}

// --- analyze ---

func TestAnalyzeHandler_Success(t *testing.T) {
	a := &mockAnalyzer{}
	rec := httptest.NewRecorder()
	NewAnalyzeHandler(a).ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]any{"question": "pricing"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var fb models.Feedback
	parseData(t, rec, &fb)
	if fb.Feedback != "advice for pricing" {
		t.Errorf("unexpected feedback: %q", fb.Feedback)
	}
	if fb.RuleID != "too-short" {
		t.Errorf("unexpected rule: %q", fb.RuleID)
	}
}

func TestAnalyzeHandler_EmptyQuestionIsAnalyzed(t *testing.T) {
	a := &mockAnalyzer{}
	rec := httptest.NewRecorder()
	NewAnalyzeHandler(a).ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]any{"question": ""}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(a.got) != 1 || a.got[0] != "" {
		t.Errorf("expected analyzer to be called with empty string, got %v", a.got)
	}
}

func TestAnalyzeHandler_MissingQuestion(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAnalyzeHandler(&mockAnalyzer{}).ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]any{"text": "hello there"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := parseErrCode(t, rec); code != "INVALID_REQUEST" {
		t.Errorf("expected INVALID_REQUEST, got %s", code)
	}
}

func TestAnalyzeHandler_InvalidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{not json"))
	NewAnalyzeHandler(&mockAnalyzer{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeHandler_BodyTooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	big := strings.Repeat("a", maxBodyBytes+1)
	NewAnalyzeHandler(&mockAnalyzer{}).ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/analyze",
		map[string]any{"question": big}))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if code := parseErrCode(t, rec); code != "REQUEST_TOO_LARGE" {
		t.Errorf("expected REQUEST_TOO_LARGE, got %s", code)
	}
}

// --- conversation ---

func TestSubmitHandler_Accepted(t *testing.T) {
	c := &mockConversation{}
	rec := httptest.NewRecorder()
	NewSubmitHandler(c).ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/conversation/messages",
		map[string]any{"content": "Why do you shop online?"}))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var msg models.Message
	parseData(t, rec, &msg)
	if msg.Role != models.RoleUser || msg.Content != "Why do you shop online?" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestSubmitHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"busy", chat.ErrBusy, http.StatusConflict, "ASSISTANT_BUSY"},
		{"closed", chat.ErrClosed, http.StatusServiceUnavailable, "SHUTTING_DOWN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewSubmitHandler(&mockConversation{submitErr: tt.err}).ServeHTTP(rec,
				jsonReq(t, http.MethodPost, "/api/v1/conversation/messages", map[string]any{"content": "hi there"}))

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if code := parseErrCode(t, rec); code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, code)
			}
		})
	}
}

func TestSubmitHandler_EmptyIsNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSubmitHandler(&mockConversation{submitErr: chat.ErrEmptyMessage}).ServeHTTP(rec,
		jsonReq(t, http.MethodPost, "/api/v1/conversation/messages", map[string]any{"content": "   "}))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestSubmitHandler_InvalidJSON(t *testing.T) {
	c := &mockConversation{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversation/messages", strings.NewReader("nope"))
	NewSubmitHandler(c).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(c.submitted) != 0 {
		t.Errorf("expected no submission, got %v", c.submitted)
	}
}

func TestConversationHandler(t *testing.T) {
	c := &mockConversation{view: models.ConversationView{
		Messages: []models.Message{{ID: chat.GreetingID, Role: models.RoleAssistant, Content: chat.Greeting}},
		Typing:   true,
	}}
	rec := httptest.NewRecorder()
	NewConversationHandler(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversation", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view models.ConversationView
	parseData(t, rec, &view)
	if !view.Typing || len(view.Messages) != 1 || view.Messages[0].ID != chat.GreetingID {
		t.Errorf("unexpected view: %+v", view)
	}
}

// --- stats ---

func TestStatsHandler(t *testing.T) {
	s := &mockStats{stats: []*models.RuleStat{{RuleID: "why-question", Hits: 4}}}
	rec := httptest.NewRecorder()
	NewStatsHandler(s).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats []models.RuleStat
	parseData(t, rec, &stats)
	if len(stats) != 1 || stats[0].Hits != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestStatsHandler_Error(t *testing.T) {
	rec := httptest.NewRecorder()
	NewStatsHandler(&mockStats{err: errors.New("db down")}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
