package services

import (
	"testing"

	"waguri-backend/internal/chatsession"
	"waguri-backend/internal/models"
)

func TestSystemPrompt(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{chatsession.LangEnglish, systemPromptEN},
		{chatsession.LangIndonesian, systemPromptID},
		{"", systemPromptID}, // Indonesian is the default
		{"unknown", systemPromptID},
	}

	for _, tc := range tests {
		if got := systemPrompt(tc.lang); got != tc.want {
			t.Errorf("systemPrompt(%q) picked the wrong prompt", tc.lang)
		}
	}
}

func TestToGenaiHistory(t *testing.T) {
	msgs := []models.ChatMessage{
		{Role: models.RoleAssistant, Content: "Halo!"},
		{Role: models.RoleUser, Content: "Hi"},
	}

	got := toGenaiHistory(msgs)
	if len(got) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(got))
	}
	if got[0].Role != "model" {
		t.Errorf("assistant should map to role \"model\", got %q", got[0].Role)
	}
	if got[1].Role != "user" {
		t.Errorf("user should stay role \"user\", got %q", got[1].Role)
	}
}
