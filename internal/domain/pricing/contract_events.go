package pricing

import (
	"github.com/tms/backend/internal/domain/shared"
)

// Contract event types
const (
	ContractCreatedEventType       = "pricing.contract.created"
	ContractStatusChangedEventType = "pricing.contract.status_changed"
)

// ContractCreatedEvent is raised when a new contract is created
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractNumber string `json:"contract_number"`
	PartnerID      string `json:"partner_id"`
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ContractCreatedEventType, "Contract", c.ID, c.TenantID),
		ContractNumber:  c.ContractNumber,
		PartnerID:       c.PartnerID.String(),
	}
}

// ContractStatusChangedEvent is raised on every contract status transition
type ContractStatusChangedEvent struct {
	shared.BaseDomainEvent
	ContractNumber string         `json:"contract_number"`
	OldStatus      ContractStatus `json:"old_status"`
	NewStatus      ContractStatus `json:"new_status"`
}

// NewContractStatusChangedEvent creates a new ContractStatusChangedEvent
func NewContractStatusChangedEvent(c *Contract, oldStatus, newStatus ContractStatus) *ContractStatusChangedEvent {
	return &ContractStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ContractStatusChangedEventType, "Contract", c.ID, c.TenantID),
		ContractNumber:  c.ContractNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
