package models

import (
	"time"

	"github.com/google/uuid"
)

// PostedDocumentModel is the GORM model for the posted_documents outbox.
// Confirmed transactions land here as JSON payloads; a downstream
// integration drains the table into the ERP backend.
type PostedDocumentModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	UseCase      string    `gorm:"type:varchar(30);not null;index"`
	DocumentDate string    `gorm:"type:varchar(10)"`
	Payload      []byte    `gorm:"type:jsonb;not null"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for PostedDocumentModel
func (PostedDocumentModel) TableName() string {
	return "posted_documents"
}
