package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// ContractStatus represents the status of a rate contract
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

// IsValid returns true for a known contract status
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusActive, ContractStatusExpired, ContractStatusTerminated:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	transitions := map[ContractStatus][]ContractStatus{
		ContractStatusDraft:      {ContractStatusActive, ContractStatusTerminated},
		ContractStatusActive:     {ContractStatusExpired, ContractStatusTerminated},
		ContractStatusExpired:    {},
		ContractStatusTerminated: {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Contract is a rate agreement with a partner, valid for a date window.
// It owns its rates and surcharges; both are mutable only in draft.
type Contract struct {
	shared.TenantAggregateRoot
	ContractNumber string
	PartnerID      uuid.UUID
	Status         ContractStatus
	Currency       valueobject.Currency
	ValidFrom      time.Time
	ValidUntil     time.Time
	Description    string
	Rates          []Rate
	Surcharges     []Surcharge
}

// NewContract creates a new draft contract
func NewContract(tenantID, partnerID uuid.UUID, contractNumber string, validFrom, validUntil time.Time) (*Contract, error) {
	contractNumber = strings.TrimSpace(contractNumber)
	if contractNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	if validFrom.IsZero() || validUntil.IsZero() {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity window is required")
	}
	if !validUntil.After(validFrom) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Validity end must be after start")
	}

	c := &Contract{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractNumber:      contractNumber,
		PartnerID:           partnerID,
		Status:              ContractStatusDraft,
		Currency:            valueobject.DefaultCurrency,
		ValidFrom:           validFrom,
		ValidUntil:          validUntil,
		Rates:               make([]Rate, 0),
		Surcharges:          make([]Surcharge, 0),
	}

	c.AddDomainEvent(NewContractCreatedEvent(c))

	return c, nil
}

// IsValidAt reports whether the contract covers the given time and is active
func (c *Contract) IsValidAt(at time.Time) bool {
	return c.Status == ContractStatusActive && !at.Before(c.ValidFrom) && !at.After(c.ValidUntil)
}

// AddRate attaches a rate to a draft contract
func (c *Contract) AddRate(rate Rate) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Rates can only be added to draft contracts")
	}
	if err := rate.Validate(); err != nil {
		return err
	}

	rate.ContractID = c.ID
	c.Rates = append(c.Rates, rate)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RemoveRate removes a rate from a draft contract
func (c *Contract) RemoveRate(rateID uuid.UUID) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Rates can only be removed from draft contracts")
	}

	for i, r := range c.Rates {
		if r.ID == rateID {
			c.Rates = append(c.Rates[:i], c.Rates[i+1:]...)
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddSurcharge attaches a surcharge to a draft contract
func (c *Contract) AddSurcharge(s Surcharge) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Surcharges can only be added to draft contracts")
	}
	if err := s.Validate(); err != nil {
		return err
	}

	s.ContractID = c.ID
	c.Surcharges = append(c.Surcharges, s)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// RemoveSurcharge removes a surcharge from a draft contract
func (c *Contract) RemoveSurcharge(surchargeID uuid.UUID) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Surcharges can only be removed from draft contracts")
	}

	for i, s := range c.Surcharges {
		if s.ID == surchargeID {
			c.Surcharges = append(c.Surcharges[:i], c.Surcharges[i+1:]...)
			c.Touch()
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Activate puts the contract into force. At least one rate is required.
func (c *Contract) Activate() error {
	if !c.Status.CanTransitionTo(ContractStatusActive) {
		return shared.NewDomainError("INVALID_STATE", "Contract cannot be activated from status "+string(c.Status))
	}
	if len(c.Rates) == 0 {
		return shared.NewDomainError("EMPTY_CONTRACT", "Cannot activate a contract without rates")
	}

	c.transition(ContractStatusActive)
	return nil
}

// MarkExpired records that the validity window has passed
func (c *Contract) MarkExpired() error {
	if !c.Status.CanTransitionTo(ContractStatusExpired) {
		return shared.NewDomainError("INVALID_STATE", "Contract cannot expire from status "+string(c.Status))
	}

	c.transition(ContractStatusExpired)
	return nil
}

// Terminate ends the contract before its validity window closes
func (c *Contract) Terminate() error {
	if !c.Status.CanTransitionTo(ContractStatusTerminated) {
		return shared.NewDomainError("INVALID_STATE", "Contract cannot be terminated from status "+string(c.Status))
	}

	c.transition(ContractStatusTerminated)
	return nil
}

func (c *Contract) transition(target ContractStatus) {
	old := c.Status
	c.Status = target
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewContractStatusChangedEvent(c, old, target))
}
