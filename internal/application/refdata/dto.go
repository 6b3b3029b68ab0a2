package refdata

import (
	"time"

	"github.com/google/uuid"

	"github.com/tms/backend/internal/domain/refdata"
)

// EntryDTO is the reference data entry representation
type EntryDTO struct {
	ID        uuid.UUID  `json:"id"`
	Category  string     `json:"category"`
	Code      string     `json:"code"`
	Label     string     `json:"label"`
	SortOrder int        `json:"sort_order"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	IsActive  bool       `json:"is_active"`
	IsSystem  bool       `json:"is_system"`
	Metadata  string     `json:"metadata,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toEntryDTO(e *refdata.Entry) *EntryDTO {
	return &EntryDTO{
		ID:        e.ID,
		Category:  string(e.Category),
		Code:      e.Code,
		Label:     e.Label,
		SortOrder: e.SortOrder,
		ParentID:  e.ParentID,
		IsActive:  e.IsActive,
		IsSystem:  e.IsSystem,
		Metadata:  e.Metadata,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
