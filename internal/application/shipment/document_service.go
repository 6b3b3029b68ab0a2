package shipment

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
)

// ObjectStorage is the port to presigned object storage. Document binaries
// never pass through the API server; clients upload and download directly
// against these URLs.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// DocumentService handles shipment document attachments
type DocumentService struct {
	shipmentRepo shipment.ShipmentRepository
	storage      ObjectStorage
	logger       *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(shipmentRepo shipment.ShipmentRepository, storage ObjectStorage, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		shipmentRepo: shipmentRepo,
		storage:      storage,
		logger:       logger,
	}
}

// RequestUploadInput contains the input for requesting a document upload
type RequestUploadInput struct {
	TenantID    uuid.UUID
	ShipmentID  uuid.UUID
	FileName    string
	ContentType string
}

// RequestUpload issues a presigned upload URL for a new document binary.
// The caller uploads the file, then attaches the record with the returned
// storage key.
func (s *DocumentService) RequestUpload(ctx context.Context, input RequestUploadInput) (*UploadTicketDTO, error) {
	if _, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID); err != nil {
		return nil, err
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "File name cannot be empty")
	}

	storageKey := buildStorageKey(input.TenantID, input.ShipmentID, fileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, input.ContentType, 0)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare document upload")
	}

	return &UploadTicketDTO{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// AttachDocumentInput contains the input for attaching an uploaded document
type AttachDocumentInput struct {
	TenantID    uuid.UUID
	ShipmentID  uuid.UUID
	Type        string
	Name        string
	StorageKey  string
	ContentType string
	SizeBytes   int64
}

// AttachDocument records an uploaded document on the shipment
func (s *DocumentService) AttachDocument(ctx context.Context, input AttachDocumentInput) (*ShipmentDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, input.TenantID, input.ShipmentID)
	if err != nil {
		return nil, err
	}

	doc := shipment.NewShipmentDocument(shipment.ShipmentDocumentType(input.Type), input.Name, input.StorageKey)
	doc.ContentType = input.ContentType
	doc.SizeBytes = input.SizeBytes

	if err := shp.AttachDocument(doc); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return nil, err
	}
	return toShipmentDTO(shp), nil
}

// GetDownloadURL issues a presigned download URL for an attached document
func (s *DocumentService) GetDownloadURL(ctx context.Context, tenantID, shipmentID, documentID uuid.UUID) (*DownloadTicketDTO, error) {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}

	var storageKey string
	for _, d := range shp.Documents {
		if d.ID == documentID {
			storageKey = d.StorageKey
			break
		}
	}
	if storageKey == "" {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, 0)
	if err != nil {
		s.logger.Error("Failed to presign download", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to prepare document download")
	}

	return &DownloadTicketDTO{DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// RemoveDocument detaches a document and deletes its binary from storage
func (s *DocumentService) RemoveDocument(ctx context.Context, tenantID, shipmentID, documentID uuid.UUID) error {
	shp, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return err
	}

	var storageKey string
	for _, d := range shp.Documents {
		if d.ID == documentID {
			storageKey = d.StorageKey
			break
		}
	}
	if err := shp.RemoveDocument(documentID); err != nil {
		return err
	}
	if err := s.shipmentRepo.Save(ctx, shp); err != nil {
		return err
	}

	if storageKey != "" {
		if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
			// The record is gone; an orphaned binary is acceptable
			s.logger.Warn("Failed to delete document binary",
				zap.String("storage_key", storageKey),
				zap.Error(err))
		}
	}
	return nil
}

// buildStorageKey namespaces objects by tenant and shipment so presigned
// access can never cross tenants by key construction.
func buildStorageKey(tenantID, shipmentID uuid.UUID, fileName string) string {
	base := path.Base(fileName)
	return fmt.Sprintf("tenants/%s/shipments/%s/%s-%s", tenantID, shipmentID, uuid.NewString()[:8], base)
}
