package shipment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/order"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
)

// fakeStorage is an in-test object storage that mints deterministic URLs
type fakeStorage struct{}

func (fakeStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (fakeStorage) DeleteObject(context.Context, string) error { return nil }

// MockShipmentRepository is a mock implementation of shipment.ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]shipment.Shipment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shipment.Shipment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, shipmentNumber string) (*shipment.Shipment, error) {
	args := m.Called(ctx, tenantID, shipmentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) SaveWithLock(ctx context.Context, s *shipment.Shipment, expectedVersion int) error {
	args := m.Called(ctx, s, expectedVersion)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, tenantID, customerID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order, expectedVersion int) error {
	args := m.Called(ctx, o, expectedVersion)
	return args.Error(0)
}

func bookedShipment(t *testing.T, tenantID uuid.UUID) *shipment.Shipment {
	t.Helper()
	shp, err := shipment.NewShipment(tenantID, "SHP-TEST-1")
	require.NoError(t, err)
	require.NoError(t, shp.AddSegment(shipment.NewTransportSegment(shipment.ModeRoad, "Hamburg", "Milano")))
	require.NoError(t, shp.Book())
	return shp
}

func TestShipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("booking requires at least one segment", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp, err := shipment.NewShipment(tenantID, "SHP-EMPTY")
		require.NoError(t, err)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		svc := NewShipmentService(repo, nil, nil, zap.NewNop())
		err = svc.BookShipment(ctx, tenantID, shp.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "NO_SEGMENTS", derr.Code)
	})

	t.Run("departure advances the originating order", func(t *testing.T) {
		shipmentRepo := new(MockShipmentRepository)
		orderRepo := new(MockOrderRepository)

		o, err := order.NewOrder(tenantID, uuid.New(), "ORD-SYNC")
		require.NoError(t, err)
		line := order.NewOrderLine("Pallets", 2)
		require.NoError(t, o.AddLine(line))
		require.NoError(t, o.Confirm())

		shp, err := shipment.NewShipmentFromOrder(tenantID, o.ID, "SHP-SYNC")
		require.NoError(t, err)
		require.NoError(t, shp.AddSegment(shipment.NewTransportSegment(shipment.ModeRoad, "Hamburg", "Milano")))
		require.NoError(t, shp.Book())
		require.NoError(t, o.MarkPlanned(shp.ID))

		shipmentRepo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)
		shipmentRepo.On("Save", ctx, shp).Return(nil)
		orderRepo.On("FindByIDForTenant", ctx, tenantID, o.ID).Return(o, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		svc := NewShipmentService(shipmentRepo, orderRepo, nil, zap.NewNop())
		require.NoError(t, svc.DepartShipment(ctx, tenantID, shp.ID))

		assert.Equal(t, shipment.ShipmentStatusInTransit, shp.Status)
		assert.Equal(t, order.OrderStatusInTransit, o.Status)
	})

	t.Run("segment arrival before departure is rejected", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		segID := shp.Segments[0].ID
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		svc := NewShipmentService(repo, nil, nil, zap.NewNop())
		err := svc.RecordSegmentArrival(ctx, tenantID, shp.ID, segID, time.Now())
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("delete is limited to planned shipments", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		svc := NewShipmentService(repo, nil, nil, zap.NewNop())
		err := svc.DeleteShipment(ctx, tenantID, shp.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})
}

func TestTrackingLog(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("tracking events accumulate in order", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)
		repo.On("Save", ctx, shp).Return(nil)

		svc := NewShipmentService(repo, nil, nil, zap.NewNop())
		_, err := svc.RecordTrackingEvent(ctx, RecordTrackingInput{
			TenantID: tenantID, ShipmentID: shp.ID,
			Type: "pickup", OccurredAt: time.Now().Add(-2 * time.Hour), Location: "Hamburg",
		})
		require.NoError(t, err)
		dto, err := svc.RecordTrackingEvent(ctx, RecordTrackingInput{
			TenantID: tenantID, ShipmentID: shp.ID,
			Type: "departure", OccurredAt: time.Now().Add(-time.Hour), Location: "Hamburg",
		})
		require.NoError(t, err)

		require.Len(t, dto.TrackingEvents, 2)
		assert.Equal(t, "pickup", dto.TrackingEvents[0].Type)
		assert.Equal(t, "departure", dto.TrackingEvents[1].Type)
	})

	t.Run("latitude without longitude is rejected", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		lat := 53.55
		svc := NewShipmentService(repo, nil, nil, zap.NewNop())
		_, err := svc.RecordTrackingEvent(ctx, RecordTrackingInput{
			TenantID: tenantID, ShipmentID: shp.ID,
			Type: "position", OccurredAt: time.Now(), Latitude: &lat,
		})
		assert.Error(t, err)
	})
}

func TestDocumentService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("upload ticket namespaces the key by tenant and shipment", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		svc := NewDocumentService(repo, fakeStorage{}, zap.NewNop())
		ticket, err := svc.RequestUpload(ctx, RequestUploadInput{
			TenantID:    tenantID,
			ShipmentID:  shp.ID,
			FileName:    "pod-signed.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.Contains(t, ticket.StorageKey, "tenants/"+tenantID.String())
		assert.Contains(t, ticket.StorageKey, "shipments/"+shp.ID.String())
		assert.Contains(t, ticket.StorageKey, "pod-signed.pdf")
		assert.NotEmpty(t, ticket.UploadURL)
	})

	t.Run("attach then download round trip", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)
		repo.On("Save", ctx, shp).Return(nil)

		svc := NewDocumentService(repo, fakeStorage{}, zap.NewNop())
		dto, err := svc.AttachDocument(ctx, AttachDocumentInput{
			TenantID:   tenantID,
			ShipmentID: shp.ID,
			Type:       "proof_of_delivery",
			Name:       "pod-signed.pdf",
			StorageKey: "tenants/x/shipments/y/pod-signed.pdf",
		})
		require.NoError(t, err)
		require.Len(t, dto.Documents, 1)

		ticket, err := svc.GetDownloadURL(ctx, tenantID, shp.ID, dto.Documents[0].ID)
		require.NoError(t, err)
		assert.NotEmpty(t, ticket.DownloadURL)
	})

	t.Run("download of unknown document reports not found", func(t *testing.T) {
		repo := new(MockShipmentRepository)
		shp := bookedShipment(t, tenantID)
		repo.On("FindByIDForTenant", ctx, tenantID, shp.ID).Return(shp, nil)

		svc := NewDocumentService(repo, fakeStorage{}, zap.NewNop())
		_, err := svc.GetDownloadURL(ctx, tenantID, shp.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
