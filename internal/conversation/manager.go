// Package conversation tracks chat sessions and their message history.
// Sessions live in an expiring in-memory cache; an idle session is
// evicted after its TTL and a later lookup simply misses.
package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Message is one turn in a session. Role is "user" or "bot".
type Message struct {
	ID        int               `json:"message_id"`
	Timestamp time.Time         `json:"timestamp"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Session is one conversation with its history and free-form context.
type Session struct {
	ID        string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []Message         `json:"messages"`
	Context   map[string]string `json:"context"`
	Tags      []string          `json:"tags"`
}

// ContextWindow is the recent-history view handed to the orchestrator.
type ContextWindow struct {
	SessionID     string    `json:"session_id"`
	Messages      []Message `json:"messages"`
	UserQuestions []string  `json:"user_questions"`
	BotAnswers    []string  `json:"bot_answers"`
	Topics        []string  `json:"topics"`
	Continuity    bool      `json:"continuity"`
}

// Stats summarizes one session.
type Stats struct {
	TotalMessages    int      `json:"total_messages"`
	UserMessages     int      `json:"user_messages"`
	BotMessages      int      `json:"bot_messages"`
	AvgUserMsgLength float64  `json:"avg_user_message_length"`
	AvgBotMsgLength  float64  `json:"avg_bot_message_length"`
	Duration         string   `json:"session_duration"`
	Topics           []string `json:"topics"`
	Tags             []string `json:"tags"`
}

// Manager owns the session cache. Mutating methods lock per manager;
// session structs are never handed out by reference.
type Manager struct {
	mu       sync.Mutex
	sessions *gocache.Cache
}

// NewManager builds a manager whose sessions expire after ttl of
// inactivity.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{sessions: gocache.New(ttl, 10*time.Minute)}
}

// CreateSession starts a new conversation and returns its id.
func (m *Manager) CreateSession(userID, name string) string {
	now := time.Now().UTC()
	if name == "" {
		name = "Session " + now.Format("2006-01-02 15:04")
	}
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		Context:   make(map[string]string),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions.SetDefault(s.ID, s)
	return s.ID
}

// AddMessage appends a turn to the session history. Touching a session
// resets its expiry.
func (m *Manager) AddMessage(sessionID, role, content string, metadata map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.load(sessionID)
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.Messages = append(s.Messages, Message{
		ID:        len(s.Messages) + 1,
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	})
	m.sessions.SetDefault(sessionID, s)
	return nil
}

// GetContextWindow returns the last windowSize messages with extracted
// topics and a continuity flag.
func (m *Manager) GetContextWindow(sessionID string, windowSize int) (ContextWindow, bool) {
	if windowSize <= 0 {
		windowSize = 5
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.load(sessionID)
	if !ok {
		return ContextWindow{}, false
	}

	recent := s.Messages
	if len(recent) > windowSize {
		recent = recent[len(recent)-windowSize:]
	}

	w := ContextWindow{
		SessionID:  sessionID,
		Messages:   recent,
		Topics:     extractTopics(recent),
		Continuity: detectContinuity(recent),
	}
	for _, msg := range recent {
		switch msg.Role {
		case "user":
			w.UserQuestions = append(w.UserQuestions, msg.Content)
		case "bot":
			w.BotAnswers = append(w.BotAnswers, msg.Content)
		}
	}
	return w, true
}

// UpdateContext sets a free-form context key on the session.
func (m *Manager) UpdateContext(sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.load(sessionID)
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.Context[key] = value
	m.sessions.SetDefault(sessionID, s)
	return nil
}

// IsFollowUp reports whether the session already holds a full exchange.
func (m *Manager) IsFollowUp(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.load(sessionID)
	return ok && len(s.Messages) > 2
}

// LastBotAnswer returns the most recent bot turn, if any.
func (m *Manager) LastBotAnswer(sessionID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.load(sessionID)
	if !ok {
		return "", false
	}
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == "bot" {
			return s.Messages[i].Content, true
		}
	}
	return "", false
}

// ConversationStats aggregates counters for one session.
func (m *Manager) ConversationStats(sessionID string) (Stats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.load(sessionID)
	if !ok {
		return Stats{}, false
	}

	st := Stats{
		TotalMessages: len(s.Messages),
		Topics:        extractTopics(s.Messages),
		Tags:          s.Tags,
		Duration:      sessionDuration(s.Messages),
	}
	userLen, botLen := 0, 0
	for _, msg := range s.Messages {
		switch msg.Role {
		case "user":
			st.UserMessages++
			userLen += len([]rune(msg.Content))
		case "bot":
			st.BotMessages++
			botLen += len([]rune(msg.Content))
		}
	}
	if st.UserMessages > 0 {
		st.AvgUserMsgLength = float64(userLen) / float64(st.UserMessages)
	}
	if st.BotMessages > 0 {
		st.AvgBotMsgLength = float64(botLen) / float64(st.BotMessages)
	}
	return st, true
}

func (m *Manager) load(sessionID string) (Session, bool) {
	v, ok := m.sessions.Get(sessionID)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// topicKeywords map a topic label to the phrases that signal it.
var topicKeywords = map[string][]string{
	"đất":        {"đất", "thửa", "mảnh"},
	"quyền":      {"quyền", "chủ quyền"},
	"luật":       {"luật", "pháp luật"},
	"mua bán":    {"mua", "bán", "chuyển nhượng"},
	"cho thuê":   {"thuê", "khoán"},
	"xây dựng":   {"xây", "dựng"},
	"bồi thường": {"bồi thường"},
	"vi phạm":    {"vi phạm"},
}

func extractTopics(messages []Message) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, msg := range messages {
		lower := strings.ToLower(msg.Content)
		for topic, keywords := range topicKeywords {
			if seen[topic] {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					seen[topic] = true
					topics = append(topics, topic)
					break
				}
			}
		}
	}
	return topics
}

var continuityWords = []string{"vậy", "còn", "tiếp", "nữa", "khác", "lại"}

func detectContinuity(messages []Message) bool {
	if len(messages) < 2 {
		return false
	}
	var userMessages []string
	for _, msg := range messages {
		if msg.Role == "user" {
			userMessages = append(userMessages, msg.Content)
		}
	}
	if len(userMessages) < 2 {
		return false
	}
	last := strings.ToLower(userMessages[len(userMessages)-1])
	for _, w := range continuityWords {
		if strings.Contains(last, w) {
			return true
		}
	}
	return false
}

func sessionDuration(messages []Message) string {
	if len(messages) == 0 {
		return "0 phút"
	}
	d := messages[len(messages)-1].Timestamp.Sub(messages[0].Timestamp)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d giây", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d phút", int(d.Minutes()))
	default:
		return fmt.Sprintf("%d giờ", int(d.Hours()))
	}
}
