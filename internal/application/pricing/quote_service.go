package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tms/backend/internal/domain/pricing"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shipment"
)

// QuoteService prices transports against a partner's contracts
type QuoteService struct {
	contractRepo pricing.ContractRepository
	ruleRepo     pricing.PricingRuleRepository
	logger       *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(contractRepo pricing.ContractRepository, ruleRepo pricing.PricingRuleRepository, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		contractRepo: contractRepo,
		ruleRepo:     ruleRepo,
		logger:       logger,
	}
}

// QuoteInput describes the transport to be priced
type QuoteInput struct {
	TenantID        uuid.UUID
	PartnerID       uuid.UUID
	ContractID      *uuid.UUID // Price against this contract only, when set
	Mode            string
	OriginZone      string
	DestinationZone string
	WeightKg        decimal.Decimal
	DistanceKm      decimal.Decimal
	PalletCount     int
	DangerousGoods  bool
	At              time.Time
}

// Quote prices the request. Without a contract ID it evaluates every
// contract of the partner valid at the requested time and returns the
// cheapest quote.
func (s *QuoteService) Quote(ctx context.Context, input QuoteInput) (*QuoteDTO, error) {
	at := input.At
	if at.IsZero() {
		at = time.Now()
	}
	req := pricing.QuoteRequest{
		Mode:            shipment.TransportMode(input.Mode),
		OriginZone:      input.OriginZone,
		DestinationZone: input.DestinationZone,
		WeightKg:        input.WeightKg,
		DistanceKm:      input.DistanceKm,
		PalletCount:     input.PalletCount,
		DangerousGoods:  input.DangerousGoods,
		At:              at,
	}

	calc, err := s.calculator(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	if input.ContractID != nil {
		c, err := s.contractRepo.FindByIDForTenant(ctx, input.TenantID, *input.ContractID)
		if err != nil {
			return nil, err
		}
		q, err := calc.Price(c, req)
		if err != nil {
			return nil, err
		}
		return toQuoteDTO(q), nil
	}

	contracts, err := s.contractRepo.FindActiveByPartner(ctx, input.TenantID, input.PartnerID, at)
	if err != nil {
		return nil, err
	}

	var best *pricing.Quote
	for i := range contracts {
		q, err := calc.Price(&contracts[i], req)
		if err != nil {
			continue
		}
		if best == nil {
			best = q
			continue
		}
		if cheaper, err := q.Total.LessThan(best.Total); err == nil && cheaper {
			best = q
		}
	}
	if best == nil {
		return nil, shared.NewDomainError("NO_MATCHING_RATE", "No contract rate covers the requested transport")
	}
	return toQuoteDTO(best), nil
}

// calculator loads the tenant's enabled rules into a calculator
func (s *QuoteService) calculator(ctx context.Context, tenantID uuid.UUID) (*pricing.Calculator, error) {
	rules, err := s.ruleRepo.FindEnabled(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*pricing.PricingRule, len(rules))
	for i := range rules {
		ptrs[i] = &rules[i]
	}
	return pricing.NewCalculator(ptrs), nil
}
