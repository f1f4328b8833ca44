package chatsession

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"waguri-backend/internal/models"
)

// Endpoint produces an assistant reply for a user message plus recent history.
type Endpoint interface {
	Reply(ctx context.Context, message string, history []models.ChatMessage, lang string) (string, error)
}

// Language tags supported by the assistant.
const (
	LangIndonesian = "id"
	LangEnglish    = "en"
)

const (
	DefaultMaxMessageLen = 2000
	DefaultHistoryWindow = 20
)

var (
	ErrEmptyMessage   = errors.New("chatsession: message is empty")
	ErrMessageTooLong = errors.New("chatsession: message exceeds length limit")
	ErrBusy           = errors.New("chatsession: a turn is already in flight")
)

var greetings = map[string]string{
	LangIndonesian: "Halo! Aku Waguri. Ada yang bisa kubantu hari ini?",
	LangEnglish:    "Hi! I'm Waguri. How can I help you today?",
}

var failureNotices = map[string]string{
	LangIndonesian: "Maaf, terjadi gangguan saat menghubungi server. Coba kirim lagi ya.",
	LangEnglish:    "Sorry, something went wrong while contacting the server. Please try again.",
}

// Config bounds a session. Zero fields fall back to the defaults above.
type Config struct {
	MaxMessageLen int
	HistoryWindow int
	Lang          string
}

// Session holds one conversation: an append-only message log, the selected
// language, and a busy flag that admits at most one in-flight turn. The full
// log is retained until Clear; only a bounded tail is ever transmitted.
//
// A Session never touches any UI. Callers observe state through the values
// returned by Submit and through the optional listener.
type Session struct {
	id       string
	endpoint Endpoint

	maxLen int
	window int

	mu       sync.Mutex
	log      []models.ChatMessage
	lang     string
	busy     bool
	listener func(models.ChatMessage)
}

// New creates an empty session bound to an endpoint.
func New(endpoint Endpoint, cfg Config) *Session {
	if cfg.MaxMessageLen <= 0 {
		cfg.MaxMessageLen = DefaultMaxMessageLen
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if _, ok := greetings[cfg.Lang]; !ok {
		cfg.Lang = LangIndonesian
	}
	return &Session{
		id:       uuid.NewString(),
		endpoint: endpoint,
		maxLen:   cfg.MaxMessageLen,
		window:   cfg.HistoryWindow,
		lang:     cfg.Lang,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetListener registers a callback invoked for every message appended to the
// log, including failure notices. The callback runs with the session lock
// held and must not call back into the session. Pass nil to remove it.
func (s *Session) SetListener(fn func(models.ChatMessage)) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Submit runs one turn: validate, append the user message, send it with the
// recent history to the endpoint, and append the reply.
//
// Validation failures (ErrEmptyMessage, ErrMessageTooLong) and ErrBusy leave
// the log untouched and reach the endpoint never. Endpoint failures are
// swallowed: a localized, error-flagged assistant message is appended and
// returned with a nil error, and the session is submittable again.
func (s *Session) Submit(ctx context.Context, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.maxLen {
		return models.ChatMessage{}, ErrMessageTooLong
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrBusy
	}
	s.busy = true
	userMsg := models.ChatMessage{Role: models.RoleUser, Content: text}
	s.appendLocked(userMsg)
	history := s.tailLocked()
	lang := s.lang
	s.mu.Unlock()

	// The history tail already ends with the user message; the backend
	// generates from history and treats the message field as redundant.
	replyText, err := s.endpoint.Reply(ctx, text, history, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	var reply models.ChatMessage
	if err != nil {
		reply = models.ChatMessage{Role: models.RoleAssistant, Content: failureNotices[lang], Err: true}
	} else {
		reply = models.ChatMessage{Role: models.RoleAssistant, Content: replyText}
	}
	s.appendLocked(reply)
	return reply, nil
}

// Clear resets the log to a single localized greeting. The language
// selection is preserved.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = s.log[:0]
	s.appendLocked(models.ChatMessage{Role: models.RoleAssistant, Content: greetings[s.lang]})
}

// SetLanguage switches the language tag sent on subsequent submissions.
// Unknown tags are ignored. No network effect.
func (s *Session) SetLanguage(lang string) {
	if _, ok := greetings[lang]; !ok {
		return
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
}

// Language returns the selected language tag.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Busy reports whether a turn is in flight (input disabled).
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Messages returns a snapshot of the full log in conversation order.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

// Greeting returns the localized greeting for a language tag.
func Greeting(lang string) string {
	if g, ok := greetings[lang]; ok {
		return g
	}
	return greetings[LangIndonesian]
}

func (s *Session) appendLocked(msg models.ChatMessage) {
	s.log = append(s.log, msg)
	if s.listener != nil {
		s.listener(msg)
	}
}

// tailLocked returns the most-recent-window suffix of the log as a copy.
func (s *Session) tailLocked() []models.ChatMessage {
	start := 0
	if len(s.log) > s.window {
		start = len(s.log) - s.window
	}
	out := make([]models.ChatMessage, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}
