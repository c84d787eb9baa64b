package entities

import (
	"time"

	"gorm.io/datatypes"
)

// ContentItem is a media asset row rendered on the public site.
type ContentItem struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Title        string `gorm:"type:varchar(200);not null"`
	Description  string `gorm:"type:text"`
	Category     string `gorm:"type:varchar(32);not null;index"`
	MediaType    string `gorm:"type:varchar(16);not null"`
	URL          string `gorm:"column:url;type:text;not null"`
	ThumbnailURL string `gorm:"column:thumbnail_url;type:text"`
	IsFeatured   bool   `gorm:"not null"`
	Placement    string `gorm:"type:varchar(32);not null;index"`
	DisplayOrder int    `gorm:"not null"`
	IsActive     bool   `gorm:"not null;index"`
	CreatedBy    string `gorm:"type:varchar(254)"`
	UpdatedBy    string `gorm:"type:varchar(254)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ContentItem) TableName() string {
	return "content_items"
}

// Inquiry is a contact form submission.
type Inquiry struct {
	ID              string `gorm:"type:varchar(36);primaryKey"`
	Name            string `gorm:"type:varchar(120);not null"`
	Email           string `gorm:"type:varchar(254);not null;index"`
	Phone           string `gorm:"type:varchar(40)"`
	ServiceInterest string `gorm:"type:varchar(120)"`
	Message         string `gorm:"type:text"`
	Status          string `gorm:"type:varchar(16);not null;index"`
	AdminNotes      string `gorm:"type:text"`
	HandledBy       string `gorm:"type:varchar(254)"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
}

func (Inquiry) TableName() string {
	return "inquiries"
}

// ChatSession is one chatbot conversation.
type ChatSession struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	UserAgent      string    `gorm:"type:varchar(255)"`
	MessageCount   int       `gorm:"not null"`
	StartedAt      time.Time `gorm:"not null"`
	LastActivityAt time.Time `gorm:"not null;index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage is one transcript line.
type ChatMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	SessionID string    `gorm:"type:varchar(36);not null;index:idx_chat_messages_session_created,priority:1;uniqueIndex:idx_chat_messages_session_seq,priority:1"`
	Seq       int64     `gorm:"not null;uniqueIndex:idx_chat_messages_session_seq,priority:2"`
	Role      string    `gorm:"type:varchar(8);not null"`
	Text      string    `gorm:"type:text;not null"`
	EntryID   string    `gorm:"type:varchar(64)"`
	CreatedAt time.Time `gorm:"not null;index:idx_chat_messages_session_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// AdminUser is an entry of the admin allow-list.
type AdminUser struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	Email       string `gorm:"type:varchar(254);not null;uniqueIndex"`
	DisplayName string `gorm:"type:varchar(120)"`
	IsActive    bool   `gorm:"not null"`
	AddedBy     string `gorm:"type:varchar(254)"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AdminUser) TableName() string {
	return "admin_users"
}

// AuditLog records one admin action.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey;autoIncrement"`
	AdminEmail   string         `gorm:"type:varchar(254);index"`
	Action       string         `gorm:"type:varchar(64);not null"`
	ResourceType string         `gorm:"type:varchar(64);not null"`
	ResourceID   string         `gorm:"type:varchar(64)"`
	Payload      datatypes.JSON `gorm:"type:jsonb"`
	IPAddress    string         `gorm:"type:varchar(64)"`
	UserAgent    string         `gorm:"type:varchar(255)"`
	StatusCode   int
	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{
		&ContentItem{},
		&Inquiry{},
		&ChatSession{},
		&ChatMessage{},
		&AdminUser{},
		&AuditLog{},
	}
}
