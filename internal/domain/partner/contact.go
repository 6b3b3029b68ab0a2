package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Contact is a person at a partner organization
type Contact struct {
	shared.BaseEntity
	PartnerID uuid.UUID
	FirstName string
	LastName  string
	Role      string
	Email     string
	Phone     string
	Mobile    string
	IsPrimary bool
}

// NewContact creates a new contact
func NewContact(firstName, lastName, email string) Contact {
	return Contact{
		BaseEntity: shared.NewBaseEntity(),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Email:      strings.ToLower(strings.TrimSpace(email)),
	}
}

// Validate checks the contact fields
func (c Contact) Validate() error {
	if strings.TrimSpace(c.LastName) == "" {
		return shared.NewDomainError("INVALID_CONTACT", "Last name cannot be empty")
	}
	if c.Email != "" {
		emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
		if !emailRegex.MatchString(c.Email) {
			return shared.NewDomainError("INVALID_CONTACT", "Invalid email format")
		}
	}
	return nil
}

// DisplayName returns "First Last"
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
