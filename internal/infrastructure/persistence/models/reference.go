package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/chatbot/internal/domain/reference"
)

// CustomerModel is the GORM model for customers
type CustomerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for CustomerModel
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts CustomerModel to a resolved entity
func (m *CustomerModel) ToDomain() *reference.ResolvedEntity {
	return &reference.ResolvedEntity{
		Kind: reference.EntityKindCustomer,
		Code: m.Code,
		Name: m.Name,
	}
}

// VendorModel is the GORM model for vendors
type VendorModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for VendorModel
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts VendorModel to a resolved entity
func (m *VendorModel) ToDomain() *reference.ResolvedEntity {
	return &reference.ResolvedEntity{
		Kind: reference.EntityKindVendor,
		Code: m.Code,
		Name: m.Name,
	}
}

// ItemModel is the GORM model for items
type ItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	Code      string          `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name      string          `gorm:"type:varchar(255);index;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for ItemModel
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts ItemModel to a resolved entity
func (m *ItemModel) ToDomain() *reference.ResolvedEntity {
	return &reference.ResolvedEntity{
		Kind:      reference.EntityKindItem,
		Code:      m.Code,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
	}
}
