package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/chatbot/internal/application/chat"
	"github.com/erp/chatbot/internal/domain/conversation"
	"github.com/erp/chatbot/internal/infrastructure/persistence/models"
)

// GormDocumentPoster implements chat.DocumentPoster by writing confirmed
// transactions into the posted_documents outbox table
type GormDocumentPoster struct {
	db *gorm.DB
}

// NewGormDocumentPoster creates a new GormDocumentPoster
func NewGormDocumentPoster(db *gorm.DB) *GormDocumentPoster {
	return &GormDocumentPoster{db: db}
}

// Post persists the confirmed transaction as a pending outbox row
func (p *GormDocumentPoster) Post(ctx context.Context, snapshot conversation.Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode document payload: %w", err)
	}

	model := models.PostedDocumentModel{
		ID:           uuid.New(),
		UseCase:      string(snapshot.UseCase),
		DocumentDate: snapshot.DocumentDate,
		Payload:      payload,
		Status:       "pending",
	}
	if err := p.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to write outbox document: %w", err)
	}
	return nil
}

var _ chat.DocumentPoster = (*GormDocumentPoster)(nil)
