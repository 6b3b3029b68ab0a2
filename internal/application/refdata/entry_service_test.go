package refdata

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/refdata"
	"github.com/tms/backend/internal/domain/shared"
)

// MockEntryRepository is a mock implementation of refdata.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*refdata.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]refdata.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) Save(ctx context.Context, e *refdata.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*refdata.Entry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]refdata.Entry, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) FindByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category refdata.Category, code string) (*refdata.Entry, error) {
	args := m.Called(ctx, tenantID, category, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category refdata.Category, includeInactive bool) ([]refdata.Entry, error) {
	args := m.Called(ctx, tenantID, category, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]refdata.Entry, error) {
	args := m.Called(ctx, tenantID, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]refdata.Entry), args.Error(1)
}

func (m *MockEntryRepository) ExistsByCategoryAndCode(ctx context.Context, tenantID uuid.UUID, category refdata.Category, code string) (bool, error) {
	args := m.Called(ctx, tenantID, category, code)
	return args.Bool(0), args.Error(1)
}

func newEntryService(repo *MockEntryRepository) *EntryService {
	return NewEntryService(repo, nil, zap.NewNop())
}

func TestCreateEntry(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates an entry and uppercases the code", func(t *testing.T) {
		repo := new(MockEntryRepository)
		repo.On("ExistsByCategoryAndCode", ctx, tenantID, refdata.CategoryDelayReason, "TRAFFIC").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*refdata.Entry")).Return(nil)

		svc := newEntryService(repo)
		dto, err := svc.CreateEntry(ctx, CreateEntryInput{
			TenantID: tenantID,
			Category: "delay_reason",
			Code:     "traffic",
			Label:    "Traffic congestion",
		})
		require.NoError(t, err)
		assert.Equal(t, "TRAFFIC", dto.Code)
		assert.True(t, dto.IsActive)
		assert.False(t, dto.IsSystem)
	})

	t.Run("rejects a duplicate natural key", func(t *testing.T) {
		repo := new(MockEntryRepository)
		repo.On("ExistsByCategoryAndCode", ctx, tenantID, refdata.CategoryDelayReason, "TRAFFIC").Return(true, nil)

		svc := newEntryService(repo)
		_, err := svc.CreateEntry(ctx, CreateEntryInput{
			TenantID: tenantID,
			Category: "delay_reason",
			Code:     "TRAFFIC",
			Label:    "Traffic congestion",
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "ALREADY_EXISTS", derr.Code)
	})

	t.Run("rejects a parent from another category", func(t *testing.T) {
		parent, err := refdata.NewEntry(tenantID, refdata.CategoryCountry, "DE", "Germany")
		require.NoError(t, err)

		repo := new(MockEntryRepository)
		repo.On("ExistsByCategoryAndCode", ctx, tenantID, refdata.CategoryDelayReason, "TRAFFIC").Return(false, nil)
		repo.On("FindByIDForTenant", ctx, tenantID, parent.ID).Return(parent, nil)

		svc := newEntryService(repo)
		_, err = svc.CreateEntry(ctx, CreateEntryInput{
			TenantID: tenantID,
			Category: "delay_reason",
			Code:     "TRAFFIC",
			Label:    "Traffic congestion",
			ParentID: &parent.ID,
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_PARENT", derr.Code)
	})

	t.Run("rejects a malformed code", func(t *testing.T) {
		repo := new(MockEntryRepository)
		repo.On("ExistsByCategoryAndCode", ctx, tenantID, refdata.CategoryDelayReason, "BAD CODE").Return(false, nil)

		svc := newEntryService(repo)
		_, err := svc.CreateEntry(ctx, CreateEntryInput{
			TenantID: tenantID,
			Category: "delay_reason",
			Code:     "bad code",
			Label:    "Nope",
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_CODE", derr.Code)
	})
}

func TestEntryMutations(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("system entries are read only", func(t *testing.T) {
		sys, err := refdata.NewSystemEntry(tenantID, refdata.CategoryIncoterm, "EXW", "Ex Works")
		require.NoError(t, err)

		repo := new(MockEntryRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, sys.ID).Return(sys, nil)
		svc := newEntryService(repo)

		label := "Renamed"
		_, err = svc.UpdateEntry(ctx, UpdateEntryInput{TenantID: tenantID, EntryID: sys.ID, Label: &label})
		require.ErrorIs(t, err, shared.ErrReadOnly)

		err = svc.DeactivateEntry(ctx, tenantID, sys.ID)
		require.ErrorIs(t, err, shared.ErrReadOnly)
	})

	t.Run("deactivate then reactivate", func(t *testing.T) {
		e, err := refdata.NewEntry(tenantID, refdata.CategoryCargoType, "FROZEN", "Frozen goods")
		require.NoError(t, err)
		e.ClearDomainEvents()

		repo := new(MockEntryRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, e.ID).Return(e, nil)
		repo.On("Save", ctx, e).Return(nil)
		svc := newEntryService(repo)

		require.NoError(t, svc.DeactivateEntry(ctx, tenantID, e.ID))
		assert.False(t, e.IsActive)

		err = svc.DeactivateEntry(ctx, tenantID, e.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)

		require.NoError(t, svc.ReactivateEntry(ctx, tenantID, e.ID))
		assert.True(t, e.IsActive)
	})

	t.Run("resolve by natural key normalizes the code", func(t *testing.T) {
		e, err := refdata.NewEntry(tenantID, refdata.CategoryCountry, "DE", "Germany")
		require.NoError(t, err)

		repo := new(MockEntryRepository)
		repo.On("FindByCategoryAndCode", ctx, tenantID, refdata.CategoryCountry, "DE").Return(e, nil)
		svc := newEntryService(repo)

		dto, err := svc.ResolveCode(ctx, tenantID, "country", " de ")
		require.NoError(t, err)
		assert.Equal(t, "DE", dto.Code)
	})
}
