package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/domain/shipment"
)

// QuoteRequest describes the transport to be priced
type QuoteRequest struct {
	Mode            shipment.TransportMode
	OriginZone      string
	DestinationZone string
	WeightKg        decimal.Decimal
	DistanceKm      decimal.Decimal
	PalletCount     int
	DangerousGoods  bool
	At              time.Time
}

// QuoteLine is one priced component of a quote
type QuoteLine struct {
	Description string
	Amount      valueobject.Money
}

// Quote is the result of pricing a transport against a contract
type Quote struct {
	ContractNumber string
	BaseFreight    valueobject.Money
	Lines          []QuoteLine
	Total          valueobject.Money
}

// Calculator prices quote requests against contracts and tenant pricing
// rules. Rules run after the contract surcharges, in priority order.
type Calculator struct {
	rules []*PricingRule
}

// NewCalculator creates a calculator with the tenant's pricing rules
func NewCalculator(rules []*PricingRule) *Calculator {
	sorted := make([]*PricingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Calculator{rules: sorted}
}

// quantityFor returns the multiplier the rate basis applies to
func quantityFor(basis RateBasis, req QuoteRequest) decimal.Decimal {
	switch basis {
	case RatePerKg:
		return req.WeightKg
	case RatePerKm:
		return req.DistanceKm
	case RatePerPallet:
		return decimal.NewFromInt(int64(req.PalletCount))
	default:
		return decimal.NewFromInt(1)
	}
}

// Price computes a quote for the request from the given contract. The
// contract must be valid at the requested time and carry a matching rate.
func (c *Calculator) Price(contract *Contract, req QuoteRequest) (*Quote, error) {
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}
	if !contract.IsValidAt(at) {
		return nil, shared.NewDomainError("CONTRACT_NOT_VALID", "Contract is not valid at the requested time")
	}

	var rate *Rate
	for i := range contract.Rates {
		if contract.Rates[i].Matches(req.Mode, req.OriginZone, req.DestinationZone, req.WeightKg) {
			rate = &contract.Rates[i]
			break
		}
	}
	if rate == nil {
		return nil, shared.NewDomainError("NO_MATCHING_RATE", "No rate covers the requested lane and weight")
	}

	base := rate.Charge(quantityFor(rate.Basis, req))
	quote := &Quote{
		ContractNumber: contract.ContractNumber,
		BaseFreight:    base,
		Lines:          []QuoteLine{{Description: "Freight", Amount: base}},
	}
	total := base

	for _, s := range contract.Surcharges {
		if s.Type == SurchargeDangerousGoods && !req.DangerousGoods {
			continue
		}
		amount := s.Apply(base)
		quote.Lines = append(quote.Lines, QuoteLine{
			Description: "Surcharge: " + string(s.Type),
			Amount:      amount,
		})
		total = total.MustAdd(amount)
	}

	for _, rule := range c.rules {
		if !rule.Matches(req) {
			continue
		}
		adjustment := total.CalculatePercentage(rule.Percent).Round(2)
		if rule.Action == ActionDiscountPercent {
			adjustment = adjustment.Negate()
		}
		quote.Lines = append(quote.Lines, QuoteLine{
			Description: "Rule: " + rule.Name,
			Amount:      adjustment,
		})
		total = total.MustAdd(adjustment)
	}

	quote.Total = total.Round(2)
	return quote, nil
}
