package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"waguri-backend/internal/chatsession"
	"waguri-backend/internal/models"
)

// Bilingual assistant persona. The lang tag on each request picks one.
const (
	systemPromptID = "Anda adalah Waguri, asisten AI yang cerdas, ramah, dan membantu dalam Bahasa Indonesia. Jawablah dengan sopan dan informatif."
	systemPromptEN = "You are Waguri, a smart, friendly, and helpful AI assistant. Please answer in English politely and informatively."
)

// Generation parameters for casual chat.
const (
	chatTemperature     = 0.9
	chatTopP            = 0.9
	chatTopK            = 50
	chatMaxOutputTokens = 512
)

// AssistantService produces chat replies through Gemini.
type AssistantService struct {
	client    *genai.Client
	modelName string
	rateChan  chan struct{} // Token bucket
}

func NewAssistantService(apiKey, modelName string, concurrentReqs int) (*AssistantService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &AssistantService{
		client:    client,
		modelName: modelName,
		rateChan:  rateChan,
	}, nil
}

func (s *AssistantService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *AssistantService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *AssistantService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Reply generates an assistant reply for one turn. The history carries the
// conversation so far and normally already ends with the submitted message;
// if it does not (a bare client sending message only), the message is
// appended before generation.
func (s *AssistantService) Reply(ctx context.Context, message string, history []models.ChatMessage, lang string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	msgs := history
	last := len(msgs) - 1
	if last < 0 || msgs[last].Role != models.RoleUser || msgs[last].Content != message {
		msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: message})
		last = len(msgs) - 1
	}

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(chatTemperature)
	model.SetTopP(chatTopP)
	model.SetTopK(chatTopK)
	model.SetMaxOutputTokens(chatMaxOutputTokens)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt(lang))},
	}

	cs := model.StartChat()
	cs.History = toGenaiHistory(msgs[:last])

	resp, err := cs.SendMessage(ctx, genai.Text(msgs[last].Content))
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return text, nil
}

func systemPrompt(lang string) string {
	if lang == chatsession.LangEnglish {
		return systemPromptEN
	}
	return systemPromptID
}

// toGenaiHistory maps wire messages onto genai contents. Gemini names the
// assistant role "model".
func toGenaiHistory(msgs []models.ChatMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
