package pricing

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
)

// MockContractRepository is a mock implementation of pricing.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.Contract, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *pricing.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.Contract, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.Contract, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, contractNumber string) (*pricing.Contract, error) {
	args := m.Called(ctx, tenantID, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActiveByPartner(ctx context.Context, tenantID, partnerID uuid.UUID, at time.Time) ([]pricing.Contract, error) {
	args := m.Called(ctx, tenantID, partnerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindActiveExpiredBefore(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]pricing.Contract, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.Contract), args.Error(1)
}

func (m *MockContractRepository) SaveWithLock(ctx context.Context, c *pricing.Contract, expectedVersion int) error {
	args := m.Called(ctx, c, expectedVersion)
	return args.Error(0)
}

// MockPricingRuleRepository is a mock implementation of pricing.PricingRuleRepository
type MockPricingRuleRepository struct {
	mock.Mock
}

func (m *MockPricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.PricingRule, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) Save(ctx context.Context, r *pricing.PricingRule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPricingRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pricing.PricingRule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pricing.PricingRule, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPricingRuleRepository) FindEnabled(ctx context.Context, tenantID uuid.UUID) ([]pricing.PricingRule, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricing.PricingRule), args.Error(1)
}

func newContractService(repo *MockContractRepository) *ContractService {
	return NewContractService(repo, nil, zap.NewNop())
}

func TestCreateContract(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	partnerID := uuid.New()

	t.Run("generates contract number when none is given", func(t *testing.T) {
		repo := new(MockContractRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*pricing.Contract")).Return(nil)

		svc := newContractService(repo)
		dto, err := svc.CreateContract(ctx, CreateContractInput{
			TenantID:   tenantID,
			PartnerID:  partnerID,
			ValidFrom:  time.Now(),
			ValidUntil: time.Now().AddDate(1, 0, 0),
		})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^CTR-\d{8}-[0-9A-F]{8}$`), dto.ContractNumber)
		assert.Equal(t, "draft", dto.Status)
	})

	t.Run("rejects an inverted validity window", func(t *testing.T) {
		repo := new(MockContractRepository)
		svc := newContractService(repo)

		_, err := svc.CreateContract(ctx, CreateContractInput{
			TenantID:   tenantID,
			PartnerID:  partnerID,
			ValidFrom:  time.Now().AddDate(1, 0, 0),
			ValidUntil: time.Now(),
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_VALIDITY", derr.Code)
	})
}

func TestContractLifecycle(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	partnerID := uuid.New()

	newDraft := func(t *testing.T) (*pricing.Contract, *MockContractRepository, *ContractService) {
		c, err := pricing.NewContract(tenantID, partnerID, "CTR-TEST-1", time.Now().AddDate(0, 0, -1), time.Now().AddDate(1, 0, 0))
		require.NoError(t, err)
		c.ClearDomainEvents()

		repo := new(MockContractRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)
		return c, repo, newContractService(repo)
	}

	t.Run("activation requires at least one rate", func(t *testing.T) {
		c, _, svc := newDraft(t)

		err := svc.ActivateContract(ctx, tenantID, c.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "EMPTY_CONTRACT", derr.Code)
	})

	t.Run("rates and surcharges are frozen after activation", func(t *testing.T) {
		c, _, svc := newDraft(t)

		dto, err := svc.AddRate(ctx, AddRateInput{
			TenantID:        tenantID,
			ContractID:      c.ID,
			Mode:            "road",
			OriginZone:      "DE-2",
			DestinationZone: "FR-6",
			Basis:           "per_kg",
			Price:           decimal.NewFromFloat(0.45),
			MinimumCharge:   decimal.NewFromInt(150),
		})
		require.NoError(t, err)
		require.Len(t, dto.Rates, 1)

		require.NoError(t, svc.ActivateContract(ctx, tenantID, c.ID))

		_, err = svc.AddRate(ctx, AddRateInput{
			TenantID:        tenantID,
			ContractID:      c.ID,
			Mode:            "road",
			OriginZone:      "DE-2",
			DestinationZone: "ES-0",
			Basis:           "per_kg",
			Price:           decimal.NewFromFloat(0.55),
		})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})

	t.Run("update is version guarded", func(t *testing.T) {
		c, err := pricing.NewContract(tenantID, partnerID, "CTR-TEST-2", time.Now(), time.Now().AddDate(1, 0, 0))
		require.NoError(t, err)

		repo := new(MockContractRepository)
		repo.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		repo.On("SaveWithLock", ctx, c, 7).Return(shared.ErrConcurrencyConflict)
		svc := newContractService(repo)

		desc := "Updated terms"
		_, err = svc.UpdateContract(ctx, UpdateContractInput{
			TenantID:    tenantID,
			ContractID:  c.ID,
			Description: &desc,
			Version:     7,
		})
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("terminated contracts cannot be deleted", func(t *testing.T) {
		c, _, svc := newDraft(t)
		require.NoError(t, c.Terminate())

		err := svc.DeleteContract(ctx, tenantID, c.ID)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_STATE", derr.Code)
	})
}
