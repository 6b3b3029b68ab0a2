package billing

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

var (
	ibanRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	bicRegex  = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// BankAccount holds the settlement coordinates of a partner. Payments
// reference the account used for the transfer.
type BankAccount struct {
	shared.TenantAggregateRoot
	PartnerID  uuid.UUID
	HolderName string
	BankName   string
	IBAN       string
	BIC        string
	IsDefault  bool
	IsActive   bool
}

// NewBankAccount creates a bank account for a partner
func NewBankAccount(tenantID, partnerID uuid.UUID, holderName, iban, bic string) (*BankAccount, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTNER", "Partner ID cannot be empty")
	}
	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return nil, shared.NewDomainError("INVALID_HOLDER", "Account holder name cannot be empty")
	}

	iban = normalizeIBAN(iban)
	if !ibanRegex.MatchString(iban) {
		return nil, shared.NewDomainError("INVALID_IBAN", "IBAN format is invalid")
	}
	bic = strings.ToUpper(strings.TrimSpace(bic))
	if bic != "" && !bicRegex.MatchString(bic) {
		return nil, shared.NewDomainError("INVALID_BIC", "BIC format is invalid")
	}

	return &BankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PartnerID:           partnerID,
		HolderName:          holderName,
		IBAN:                iban,
		BIC:                 bic,
		IsActive:            true,
	}, nil
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(iban), " ", ""))
}

// MaskedIBAN returns the IBAN with all but the country code and the last
// four characters hidden, for display and logs.
func (a *BankAccount) MaskedIBAN() string {
	if len(a.IBAN) <= 8 {
		return a.IBAN
	}
	return a.IBAN[:4] + strings.Repeat("*", len(a.IBAN)-8) + a.IBAN[len(a.IBAN)-4:]
}

// MarkDefault flags this account as the partner's default
func (a *BankAccount) MarkDefault() {
	a.IsDefault = true
	a.Touch()
	a.IncrementVersion()
}

// ClearDefault removes the default flag
func (a *BankAccount) ClearDefault() {
	a.IsDefault = false
	a.Touch()
	a.IncrementVersion()
}

// Deactivate disables the account for new payments
func (a *BankAccount) Deactivate() {
	a.IsActive = false
	a.IsDefault = false
	a.Touch()
	a.IncrementVersion()
}
