package chatrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/entities"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// ChatGormRepository implements chat.Repository using GORM
type ChatGormRepository struct {
	db *transaction.Database
}

var _ chat.Repository = (*ChatGormRepository)(nil)

// NewChatGormRepository creates a new GORM-based transcript repository
func NewChatGormRepository(db *transaction.Database) chat.Repository {
	return &ChatGormRepository{db: db}
}

func (r *ChatGormRepository) CreateSession(ctx context.Context, session *chat.Session) error {
	row := entities.ChatSession{
		ID:             session.ID,
		UserAgent:      session.UserAgent,
		MessageCount:   session.MessageCount,
		StartedAt:      session.StartedAt,
		LastActivityAt: session.LastActivityAt,
	}
	if err := r.db.GetTx(ctx).Create(&row).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to create chat session", err, "5d2a8f1c-7e39-4b06-a4c8-e1f0b9d3c627")
	}
	return nil
}

func (r *ChatGormRepository) FindSession(ctx context.Context, id string) (*chat.Session, error) {
	var row entities.ChatSession
	if err := r.db.GetTx(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "chat session not found", err, "c8e1f4a7-2b6d-4d93-8f05-7a3c0e9b1d64")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to find chat session", err, "1f7b3e9d-5c20-4a68-b9e1-d4a6c2f8e035")
	}
	return sessionToDomain(row), nil
}

func (r *ChatGormRepository) TouchSession(ctx context.Context, id string, at time.Time, addedMessages int) error {
	result := r.db.GetTx(ctx).Model(&entities.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_activity_at": at,
			"message_count":    gorm.Expr("message_count + ?", addedMessages),
		})
	if result.Error != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update chat session", result.Error, "a4d0c6b2-9e17-4f85-8c3a-0b5e7d1f9a28")
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "chat session not found", nil, "e7f2b5d8-3a41-4c09-9d6e-2c8f0a4b7e13")
	}
	return nil
}

// AppendMessage stores message as the next line of its session and sets
// message.Seq. Transcripts are ordered by Seq, never by clock.
func (r *ChatGormRepository) AppendMessage(ctx context.Context, message *chat.Message) error {
	row := entities.ChatMessage{
		ID:        message.ID,
		SessionID: message.SessionID,
		Role:      string(message.Role),
		Text:      message.Text,
		EntryID:   message.EntryID,
		CreatedAt: message.CreatedAt,
	}
	err := r.db.InTx(ctx, func(ctx context.Context) error {
		tx := r.db.GetTx(ctx)
		var last int64
		if err := tx.Model(&entities.ChatMessage{}).
			Where("session_id = ?", message.SessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		row.Seq = last + 1
		return tx.Create(&row).Error
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to append chat message", err, "3b9e6a0f-d4c2-4e71-a8b5-f6d1c3e0a947")
	}
	message.Seq = row.Seq
	return nil
}

func (r *ChatGormRepository) ListSessions(ctx context.Context, p *query.Pagination) ([]*chat.Session, error) {
	q := r.db.GetTx(ctx).Model(&entities.ChatSession{}).Order("last_activity_at DESC")
	if p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}

	var rows []entities.ChatSession
	if err := q.Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list chat sessions", err, "8c5f2d7a-1e94-4b30-b6f7-9a0d3e5c8b21")
	}
	sessions := make([]*chat.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, sessionToDomain(row))
	}
	return sessions, nil
}

func (r *ChatGormRepository) CountSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetTx(ctx).Model(&entities.ChatSession{}).Count(&count).Error; err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count chat sessions", err, "f1a7c3e9-6b05-4d28-9e4c-b2d8f0a6c513")
	}
	return count, nil
}

func (r *ChatGormRepository) ListMessages(ctx context.Context, sessionID string) ([]*chat.Message, error) {
	var rows []entities.ChatMessage
	err := r.db.GetTx(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list chat messages", err, "6e3d9b1a-4f72-4c8e-a0d5-c7b2e8f4a196")
	}
	messages := make([]*chat.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, &chat.Message{
			ID:        row.ID,
			SessionID: row.SessionID,
			Seq:       row.Seq,
			Role:      chat.Role(row.Role),
			Text:      row.Text,
			EntryID:   row.EntryID,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

// DeleteInactiveBefore removes sessions idle since before cutoff along with
// their messages and returns how many sessions went.
func (r *ChatGormRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := r.db.InTx(ctx, func(ctx context.Context) error {
		tx := r.db.GetTx(ctx)
		stale := tx.Model(&entities.ChatSession{}).Select("id").Where("last_activity_at < ?", cutoff)
		if err := tx.Where("session_id IN (?)", stale).Delete(&entities.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Where("last_activity_at < ?", cutoff).Delete(&entities.ChatSession{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to purge chat sessions", err, "b0e4a8c6-2d19-4f57-8b3e-5a9c1f7d0e82")
	}
	return deleted, nil
}

func sessionToDomain(row entities.ChatSession) *chat.Session {
	return &chat.Session{
		ID:             row.ID,
		UserAgent:      row.UserAgent,
		MessageCount:   row.MessageCount,
		StartedAt:      row.StartedAt,
		LastActivityAt: row.LastActivityAt,
	}
}
