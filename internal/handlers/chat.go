package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"waguri-backend/internal/models"
)

type replyGenerator interface {
	Reply(ctx context.Context, message string, history []models.ChatMessage, lang string) (string, error)
}

type ChatHandler struct {
	assistant replyGenerator
	maxLen    int
	window    int
}

func NewChatHandler(assistant replyGenerator, maxMessageLen, historyWindow int) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		maxLen:    maxMessageLen,
		window:    historyWindow,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}
	if utf8.RuneCountInString(req.Message) > h.maxLen {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is too long", r))
		return
	}

	// The widget already bounds the history it sends; clamp anyway so a
	// bare client cannot push an unbounded transcript upstream.
	if len(req.History) > h.window {
		req.History = req.History[len(req.History)-h.window:]
	}

	reply, err := h.assistant.Reply(r.Context(), req.Message, req.History, req.Lang)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to get AI response", r))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
