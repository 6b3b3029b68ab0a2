package models

import (
	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/refdata"
)

// ReferenceDataModel is the persistence model for the reference data Entry aggregate.
type ReferenceDataModel struct {
	TenantAggregateModel
	Category  refdata.Category `gorm:"type:refdata_category;not null;uniqueIndex:idx_refdata_natural_key,priority:2"`
	Code      string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_refdata_natural_key,priority:3"`
	Label     string           `gorm:"type:varchar(200);not null"`
	SortOrder int              `gorm:"not null;default:0"`
	ParentID  *uuid.UUID       `gorm:"type:uuid;index"`
	IsActive  bool             `gorm:"not null;default:true;index"`
	IsSystem  bool             `gorm:"not null;default:false"`
	IsEditable bool            `gorm:"not null;default:true"`
	Metadata  string           `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (ReferenceDataModel) TableName() string {
	return "reference_data"
}

// ToDomain converts the persistence model to a domain Entry entity.
func (m *ReferenceDataModel) ToDomain() *refdata.Entry {
	e := &refdata.Entry{
		Category:   m.Category,
		Code:       m.Code,
		Label:      m.Label,
		SortOrder:  m.SortOrder,
		ParentID:   m.ParentID,
		IsActive:   m.IsActive,
		IsSystem:   m.IsSystem,
		IsEditable: m.IsEditable,
		Metadata:   m.Metadata,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain Entry entity.
func (m *ReferenceDataModel) FromDomain(e *refdata.Entry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Category = e.Category
	m.Code = e.Code
	m.Label = e.Label
	m.SortOrder = e.SortOrder
	m.ParentID = e.ParentID
	m.IsActive = e.IsActive
	m.IsSystem = e.IsSystem
	m.IsEditable = e.IsEditable
	m.Metadata = e.Metadata
}

// ReferenceDataModelFromDomain creates a new persistence model from a domain Entry.
func ReferenceDataModelFromDomain(e *refdata.Entry) *ReferenceDataModel {
	m := &ReferenceDataModel{}
	m.FromDomain(e)
	return m
}
