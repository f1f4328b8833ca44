package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWidgetPage(t *testing.T) {
	h := NewWidgetHandler(WidgetConfig{
		Endpoint:      "/api/v1/chat",
		MaxMessageLen: 2000,
		HistoryWindow: 20,
		TypingDelayMs: 400,
		Lang:          "id",
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Page(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html, got %q", ct)
	}

	body := rr.Body.String()
	if strings.Contains(body, "__WAGURI_CONFIG__") {
		t.Error("Config placeholder was not substituted")
	}
	if !strings.Contains(body, `"endpoint":"/api/v1/chat"`) {
		t.Error("Endpoint missing from injected config")
	}
	if !strings.Contains(body, `"maxMessageLen":2000`) {
		t.Error("Max message length missing from injected config")
	}
}

func TestWidgetPageNotFound(t *testing.T) {
	h := NewWidgetHandler(WidgetConfig{Endpoint: "/api/v1/chat"})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	h.Page(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}
