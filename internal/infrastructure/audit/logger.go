package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/entities"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
	"github.com/maisonbelle/salon-site/internal/utils/platformerrors"
)

// Logger records admin actions to the audit_logs table.
type Logger struct {
	db  *transaction.Database
	log zerolog.Logger
}

func NewLogger(db *transaction.Database, log zerolog.Logger) *Logger {
	return &Logger{db: db, log: log.With().Str("component", "audit").Logger()}
}

type Entry struct {
	AdminEmail string
	Action     string
	Resource   string
	ResourceID string
	Payload    any
	StatusCode int
	IPAddress  string
	UserAgent  string
	Error      error
}

// Record is a stored audit line as returned to admins.
type Record struct {
	ID           uint            `json:"id"`
	AdminEmail   string          `json:"admin_email"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
	StatusCode   int             `json:"status_code"`
	ErrorMessage string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Log persists the admin action; failures are logged and swallowed.
func (l *Logger) Log(ctx context.Context, entry Entry) {
	if l == nil || l.db == nil {
		return
	}

	var payload datatypes.JSON
	if entry.Payload != nil {
		if b, err := json.Marshal(entry.Payload); err == nil {
			payload = b
		}
	}

	row := entities.AuditLog{
		AdminEmail:   entry.AdminEmail,
		Action:       entry.Action,
		ResourceType: entry.Resource,
		ResourceID:   entry.ResourceID,
		Payload:      payload,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		StatusCode:   entry.StatusCode,
		ErrorMessage: errorString(entry.Error),
	}
	if err := l.db.GetTx(ctx).Create(&row).Error; err != nil {
		l.log.Warn().Err(err).Str("action", entry.Action).Msg("failed to write admin audit log")
	}
}

// List returns the newest audit lines first.
func (l *Logger) List(ctx context.Context, p *query.Pagination) ([]Record, int64, error) {
	q := l.db.GetTx(ctx).Model(&entities.AuditLog{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to count audit logs", err, "5f9c2a7e-1d46-4b83-a0e7-c3b8d6f1e924")
	}

	q = l.db.GetTx(ctx).Model(&entities.AuditLog{}).Order("created_at DESC").Order("id DESC")
	if p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}
	var rows []entities.AuditLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list audit logs", err, "a2e6d0b4-7c39-4f15-9b8a-e1f4c7d3a068")
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			ID:           row.ID,
			AdminEmail:   row.AdminEmail,
			Action:       row.Action,
			ResourceType: row.ResourceType,
			ResourceID:   row.ResourceID,
			Payload:      json.RawMessage(row.Payload),
			StatusCode:   row.StatusCode,
			ErrorMessage: row.ErrorMessage,
			CreatedAt:    row.CreatedAt,
		})
	}
	return records, total, nil
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
