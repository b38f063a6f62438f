package business

import (
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessType represents the kind of business being managed
type BusinessType string

const (
	BusinessTypeRestaurant BusinessType = "restaurant"
	BusinessTypeCafe       BusinessType = "cafe"
	BusinessTypeBar        BusinessType = "bar"
	BusinessTypeRetail     BusinessType = "retail"
	BusinessTypeOther      BusinessType = "other"
)

// Business represents a managed business. It is the aggregate root every
// other business-scoped record hangs off.
type Business struct {
	shared.BaseAggregateRoot
	OwnerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name     string          `gorm:"type:varchar(200);not null"`
	Type     BusinessType    `gorm:"type:varchar(20);not null;default:'restaurant'"`
	Currency string          `gorm:"type:varchar(3);not null;default:'ILS'"`
	VATRate  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18"` // percent
	Active   bool            `gorm:"not null;default:true"`
	Notes    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Business) TableName() string {
	return "businesses"
}

// NewBusiness creates a new business owned by the given profile
func NewBusiness(ownerID uuid.UUID, name string, businessType BusinessType) (*Business, error) {
	if err := validateBusinessName(name); err != nil {
		return nil, err
	}
	if err := validateBusinessType(businessType); err != nil {
		return nil, err
	}

	b := &Business{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Name:              strings.TrimSpace(name),
		Type:              businessType,
		Currency:          "ILS",
		VATRate:           decimal.NewFromInt(18),
		Active:            true,
	}

	b.AddDomainEvent(NewBusinessCreatedEvent(b))

	return b, nil
}

// Update updates the business details
func (b *Business) Update(name string, businessType BusinessType, notes string) error {
	if err := validateBusinessName(name); err != nil {
		return err
	}
	if err := validateBusinessType(businessType); err != nil {
		return err
	}

	b.Name = strings.TrimSpace(name)
	b.Type = businessType
	b.Notes = notes
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBusinessUpdatedEvent(b))

	return nil
}

// SetVATRate sets the VAT percentage applied to invoices
func (b *Business) SetVATRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	b.VATRate = rate
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetCurrency sets the ISO 4217 currency code
func (b *Business) SetCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	b.Currency = currency
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Deactivate hides the business from active listings
func (b *Business) Deactivate() error {
	if !b.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Business is already inactive")
	}
	b.Active = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Activate re-enables the business
func (b *Business) Activate() error {
	if b.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Business is already active")
	}
	b.Active = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// IsOwnedBy reports whether the given profile owns this business
func (b *Business) IsOwnedBy(profileID uuid.UUID) bool {
	return b.OwnerID == profileID
}

func validateBusinessName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot exceed 200 characters")
	}
	return nil
}

func validateBusinessType(t BusinessType) error {
	switch t {
	case BusinessTypeRestaurant, BusinessTypeCafe, BusinessTypeBar, BusinessTypeRetail, BusinessTypeOther:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid business type")
	}
}
