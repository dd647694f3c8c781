package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/erp/chatbot/internal/domain/reference"
	"github.com/erp/chatbot/internal/domain/shared"
	"github.com/erp/chatbot/internal/infrastructure/persistence/models"
)

// GormReferenceRepository implements reference.Repository using GORM
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// FindByName resolves a name to its canonical record. The match is
// case-insensitive and exact; when several rows carry the same name the
// lowest code wins so repeated lookups stay deterministic.
func (r *GormReferenceRepository) FindByName(ctx context.Context, kind reference.EntityKind, name string) (*reference.ResolvedEntity, error) {
	q := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("code ASC")

	switch kind {
	case reference.EntityKindCustomer:
		var model models.CustomerModel
		if err := q.First(&model).Error; err != nil {
			return nil, mapLookupError(err)
		}
		return model.ToDomain(), nil
	case reference.EntityKindVendor:
		var model models.VendorModel
		if err := q.First(&model).Error; err != nil {
			return nil, mapLookupError(err)
		}
		return model.ToDomain(), nil
	case reference.EntityKindItem:
		var model models.ItemModel
		if err := q.First(&model).Error; err != nil {
			return nil, mapLookupError(err)
		}
		return model.ToDomain(), nil
	default:
		return nil, shared.NewDomainError("INVALID_ENTITY_KIND", fmt.Sprintf("Unknown entity kind: %s", kind))
	}
}

// ListNames returns every name of the given kind, ordered by code
func (r *GormReferenceRepository) ListNames(ctx context.Context, kind reference.EntityKind) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := r.db.WithContext(ctx).
		Table(table).
		Order("code ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func tableFor(kind reference.EntityKind) (string, error) {
	switch kind {
	case reference.EntityKindCustomer:
		return models.CustomerModel{}.TableName(), nil
	case reference.EntityKindVendor:
		return models.VendorModel{}.TableName(), nil
	case reference.EntityKindItem:
		return models.ItemModel{}.TableName(), nil
	default:
		return "", shared.NewDomainError("INVALID_ENTITY_KIND", fmt.Sprintf("Unknown entity kind: %s", kind))
	}
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

var _ reference.Repository = (*GormReferenceRepository)(nil)
