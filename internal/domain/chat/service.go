package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/chatbot"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/utils/idgen"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

// DefaultMaxMessageLength bounds a visitor message in characters.
const DefaultMaxMessageLength = 1000

const maxUserAgentLength = 255

// Service records chatbot conversations.
type Service struct {
	repo      Repository
	responder chatbot.Responder
	sanitizer *telemetry.Sanitizer
	maxLength int
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a chat service answering through responder.
func NewService(repo Repository, responder chatbot.Responder, sanitizer *telemetry.Sanitizer, maxLength int, log zerolog.Logger) *Service {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	return &Service{
		repo:      repo,
		responder: responder,
		sanitizer: sanitizer,
		maxLength: maxLength,
		log:       log.With().Str("component", "chat-service").Logger(),
		now:       time.Now,
	}
}

// Greeting returns the message shown when the widget opens.
func (s *Service) Greeting() string {
	return s.responder.Greeting()
}

// Send stores the visitor line, matches a reply and stores the bot line. An
// empty or unknown session id starts a new session.
func (s *Service) Send(ctx context.Context, input SendInput) (*Reply, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message text is required", nil, "a4d81f3c-6e29-4b07-9c5a-1f8e3d7b2c60")
	}
	if utf8.RuneCountInString(text) > s.maxLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message must be at most %d characters", s.maxLength), nil, "2e7c5b90-3d14-4a68-8f2b-6c0a9e1d5f37")
	}

	session, err := s.resolveSession(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.AppendMessage(ctx, &Message{
		ID:        idgen.NewID(),
		SessionID: session.ID,
		Role:      RoleUser,
		Text:      text,
		CreatedAt: now,
	}); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store visitor message")
	}

	result := s.responder.Match(text)

	if err := s.repo.AppendMessage(ctx, &Message{
		ID:        idgen.NewID(),
		SessionID: session.ID,
		Role:      RoleBot,
		Text:      result.Reply,
		EntryID:   result.EntryID,
		CreatedAt: s.now().UTC(),
	}); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "store bot reply")
	}

	if err := s.repo.TouchSession(ctx, session.ID, now, 2); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to update session activity")
	}

	s.log.Debug().
		Str("session_id", session.ID).
		Str("text", s.sanitizer.Text(text)).
		Bool("matched", result.Matched).
		Str("entry_id", result.EntryID).
		Msg("chat turn")

	return &Reply{
		SessionID: session.ID,
		Reply:     result.Reply,
		Matched:   result.Matched,
		EntryID:   result.EntryID,
	}, nil
}

func (s *Service) resolveSession(ctx context.Context, input SendInput) (*Session, error) {
	if id := strings.TrimSpace(input.SessionID); id != "" && idgen.IsValidID(id) {
		session, err := s.repo.FindSession(ctx, id)
		if err == nil {
			return session, nil
		}
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load chat session")
		}
	}

	userAgent := strings.TrimSpace(input.UserAgent)
	if len(userAgent) > maxUserAgentLength {
		userAgent = userAgent[:maxUserAgentLength]
	}

	now := s.now().UTC()
	session := &Session{
		ID:             idgen.NewID(),
		UserAgent:      userAgent,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create chat session")
	}
	return session, nil
}

// ListSessions returns sessions, most recently active first, with the total count.
func (s *Service) ListSessions(ctx context.Context, p *query.Pagination) ([]*Session, int64, error) {
	sessions, err := s.repo.ListSessions(ctx, p)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list chat sessions")
	}
	total, err := s.repo.CountSessions(ctx)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count chat sessions")
	}
	return sessions, total, nil
}

// GetTranscript returns a session and its lines in order.
func (s *Service) GetTranscript(ctx context.Context, sessionID string) (*Transcript, error) {
	session, err := s.repo.FindSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load chat session")
	}
	messages, err := s.repo.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load chat messages")
	}
	return &Transcript{Session: session, Messages: messages}, nil
}

// PurgeOlderThan deletes sessions, and their lines, idle since before cutoff.
func (s *Service) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.repo.DeleteInactiveBefore(ctx, cutoff.UTC())
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "purge chat sessions")
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("purged inactive chat sessions")
	}
	return deleted, nil
}
