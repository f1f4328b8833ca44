package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"waguri-backend/internal/models"
)

type stubAssistant struct {
	reply   string
	err     error
	calls   int
	lastMsg string
	lastLen int
	lang    string
}

func (s *stubAssistant) Reply(ctx context.Context, message string, history []models.ChatMessage, lang string) (string, error) {
	s.calls++
	s.lastMsg = message
	s.lastLen = len(history)
	s.lang = lang
	return s.reply, s.err
}

func doChat(t *testing.T, h *ChatHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Chat(rr, req)
	return rr
}

func TestChatSuccess(t *testing.T) {
	assistant := &stubAssistant{reply: "Hi!"}
	h := NewChatHandler(assistant, 2000, 20)

	rr := doChat(t, h, models.ChatRequest{
		Message: "Hello",
		History: []models.ChatMessage{{Role: "user", Content: "Hello"}},
		Lang:    "en",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp models.ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Response != "Hi!" {
		t.Errorf("Expected response \"Hi!\", got %q", resp.Response)
	}
	if assistant.lang != "en" {
		t.Errorf("Expected lang passed through, got %q", assistant.lang)
	}
}

func TestChatValidation(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty message", ""},
		{"whitespace message", "   "},
		{"oversized message", strings.Repeat("a", 2001)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assistant := &stubAssistant{reply: "unused"}
			h := NewChatHandler(assistant, 2000, 20)

			rr := doChat(t, h, models.ChatRequest{Message: tc.message})
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
			if assistant.calls != 0 {
				t.Errorf("Assistant must not be called, got %d calls", assistant.calls)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
			}
		})
	}
}

func TestChatInvalidBody(t *testing.T) {
	h := NewChatHandler(&stubAssistant{}, 2000, 20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.Chat(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestChatAssistantFailure(t *testing.T) {
	assistant := &stubAssistant{err: errors.New("model unavailable")}
	h := NewChatHandler(assistant, 2000, 20)

	rr := doChat(t, h, models.ChatRequest{Message: "Hello"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Error.Code != "AI_ERROR" {
		t.Errorf("Expected AI_ERROR, got %q", resp.Error.Code)
	}
}

func TestChatHistoryClamped(t *testing.T) {
	assistant := &stubAssistant{reply: "ok"}
	h := NewChatHandler(assistant, 2000, 4)

	history := make([]models.ChatMessage, 10)
	for i := range history {
		history[i] = models.ChatMessage{Role: "user", Content: "old"}
	}
	history[9] = models.ChatMessage{Role: "user", Content: "newest"}

	rr := doChat(t, h, models.ChatRequest{Message: "newest", History: history})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if assistant.lastLen != 4 {
		t.Errorf("Expected history clamped to 4, assistant saw %d", assistant.lastLen)
	}
}
