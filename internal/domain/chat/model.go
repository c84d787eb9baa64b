package chat

import (
	"context"
	"time"

	"github.com/maisonbelle/salon-site/internal/domain/query"
)

// Role identifies who wrote a transcript line.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Session is one chatbot conversation.
type Session struct {
	ID             string    `json:"id"`
	UserAgent      string    `json:"user_agent,omitempty"`
	MessageCount   int       `json:"message_count"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Message is one transcript line.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Seq       int64     `json:"seq"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	EntryID   string    `json:"entry_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is a session with all of its lines in order.
type Transcript struct {
	Session  *Session   `json:"session"`
	Messages []*Message `json:"messages"`
}

// SendInput is one visitor message.
type SendInput struct {
	SessionID string
	Text      string
	UserAgent string
}

// Reply is what the widget receives for a visitor message.
type Reply struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Matched   bool   `json:"matched"`
	EntryID   string `json:"entry_id,omitempty"`
}

// Repository defines persistence operations for transcripts.
type Repository interface {
	CreateSession(ctx context.Context, session *Session) error
	FindSession(ctx context.Context, id string) (*Session, error)
	TouchSession(ctx context.Context, id string, at time.Time, addedMessages int) error
	AppendMessage(ctx context.Context, message *Message) error
	ListSessions(ctx context.Context, p *query.Pagination) ([]*Session, error)
	CountSessions(ctx context.Context) (int64, error)
	ListMessages(ctx context.Context, sessionID string) ([]*Message, error)
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
