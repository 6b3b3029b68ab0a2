package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// DocumentType classifies a partner document
type DocumentType string

const (
	DocumentTypeInsurance     DocumentType = "insurance_certificate"
	DocumentTypeLicense       DocumentType = "operating_license"
	DocumentTypeContract      DocumentType = "signed_contract"
	DocumentTypeQualification DocumentType = "qualification"
	DocumentTypeOther         DocumentType = "other"
)

// IsValid returns true for a known document type
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInsurance, DocumentTypeLicense, DocumentTypeContract,
		DocumentTypeQualification, DocumentTypeOther:
		return true
	}
	return false
}

// Document is a file attached to a partner. The binary lives in object
// storage; StorageKey locates it.
type Document struct {
	shared.BaseEntity
	PartnerID   uuid.UUID
	Type        DocumentType
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	ExpiresAt   *time.Time
}

// NewDocument creates a new document record
func NewDocument(docType DocumentType, name, storageKey string) Document {
	return Document{
		BaseEntity: shared.NewBaseEntity(),
		Type:       docType,
		Name:       strings.TrimSpace(name),
		StorageKey: storageKey,
	}
}

// Validate checks the document fields
func (d Document) Validate() error {
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT", "Unknown document type")
	}
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document name cannot be empty")
	}
	if strings.TrimSpace(d.StorageKey) == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Storage key cannot be empty")
	}
	return nil
}

// IsExpired returns true if the document validity has lapsed
func (d Document) IsExpired(at time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(at)
}
