package shipment

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// ShipmentDocumentType classifies a shipment document
type ShipmentDocumentType string

const (
	ShipmentDocCMR          ShipmentDocumentType = "cmr"
	ShipmentDocBOL          ShipmentDocumentType = "bill_of_lading"
	ShipmentDocDeliveryNote ShipmentDocumentType = "delivery_note"
	ShipmentDocCustoms      ShipmentDocumentType = "customs_declaration"
	ShipmentDocPOD          ShipmentDocumentType = "proof_of_delivery"
	ShipmentDocPhoto        ShipmentDocumentType = "photo"
	ShipmentDocOther        ShipmentDocumentType = "other"
)

// IsValid returns true for a known shipment document type
func (t ShipmentDocumentType) IsValid() bool {
	switch t {
	case ShipmentDocCMR, ShipmentDocBOL, ShipmentDocDeliveryNote,
		ShipmentDocCustoms, ShipmentDocPOD, ShipmentDocPhoto, ShipmentDocOther:
		return true
	}
	return false
}

// ShipmentDocument is a file attached to a shipment. The binary lives in
// object storage; StorageKey locates it.
type ShipmentDocument struct {
	shared.BaseEntity
	ShipmentID  uuid.UUID
	Type        ShipmentDocumentType
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64
}

// NewShipmentDocument creates a new shipment document record
func NewShipmentDocument(docType ShipmentDocumentType, name, storageKey string) ShipmentDocument {
	return ShipmentDocument{
		BaseEntity: shared.NewBaseEntity(),
		Type:       docType,
		Name:       strings.TrimSpace(name),
		StorageKey: storageKey,
	}
}

// Validate checks the document fields
func (d ShipmentDocument) Validate() error {
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT", "Unknown shipment document type")
	}
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document name cannot be empty")
	}
	if strings.TrimSpace(d.StorageKey) == "" {
		return shared.NewDomainError("INVALID_DOCUMENT", "Storage key cannot be empty")
	}
	return nil
}
