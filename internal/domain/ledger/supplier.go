package ledger

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierCategory groups suppliers for reporting
type SupplierCategory string

const (
	SupplierCategoryFood      SupplierCategory = "food"
	SupplierCategoryBeverages SupplierCategory = "beverages"
	SupplierCategoryEquipment SupplierCategory = "equipment"
	SupplierCategoryServices  SupplierCategory = "services"
	SupplierCategoryOther     SupplierCategory = "other"
)

var (
	supplierEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	supplierPhoneRegex = regexp.MustCompile(`^[0-9+\-() ]{5,50}$`)
)

// Supplier represents a vendor the business buys from
type Supplier struct {
	shared.BusinessAggregateRoot
	Name        string           `gorm:"type:varchar(200);not null"`
	Category    SupplierCategory `gorm:"type:varchar(20);not null;default:'other'"`
	ContactName string           `gorm:"type:varchar(100)"`
	Phone       string           `gorm:"type:varchar(50)"`
	Email       string           `gorm:"type:varchar(200)"`
	TaxID       string           `gorm:"type:varchar(50)"` // ח.פ / עוסק מורשה number
	// Payment terms: end of month plus N days (net EOM+N, "שוטף פלוס")
	PaymentTermsDays int    `gorm:"not null;default:0"`
	Active           bool   `gorm:"not null;default:true"`
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(businessID uuid.UUID, name string, category SupplierCategory) (*Supplier, error) {
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}
	if err := validateSupplierCategory(category); err != nil {
		return nil, err
	}

	s := &Supplier{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  strings.TrimSpace(name),
		Category:              category,
		Active:                true,
	}

	s.AddDomainEvent(NewSupplierCreatedEvent(s))

	return s, nil
}

// Update updates the supplier's details
func (s *Supplier) Update(name string, category SupplierCategory, notes string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}
	if err := validateSupplierCategory(category); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.Category = category
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))

	return nil
}

// SetContact sets the supplier's contact information
func (s *Supplier) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && !supplierPhoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone format is invalid")
	}
	if email != "" && !supplierEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}

	s.ContactName = strings.TrimSpace(contactName)
	s.Phone = phone
	s.Email = strings.ToLower(email)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetTaxID sets the supplier's tax registration number
func (s *Supplier) SetTaxID(taxID string) error {
	if taxID != "" && len(taxID) > 50 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}
	s.TaxID = strings.TrimSpace(taxID)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetPaymentTerms sets the EOM+N payment terms in days
func (s *Supplier) SetPaymentTerms(days int) error {
	if days < 0 || days > 180 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 180 days")
	}
	s.PaymentTermsDays = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Deactivate hides the supplier from active listings
func (s *Supplier) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Activate re-enables the supplier
func (s *Supplier) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// DefaultDueDate computes the due date for a purchase on the given date
// under the supplier's EOM+N terms: end of the purchase month plus N days.
func (s *Supplier) DefaultDueDate(purchaseDate time.Time) time.Time {
	endOfMonth := time.Date(purchaseDate.Year(), purchaseDate.Month(), 1, 0, 0, 0, 0, purchaseDate.Location()).
		AddDate(0, 1, -1)
	return endOfMonth.AddDate(0, 0, s.PaymentTermsDays)
}

func validateSupplierName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}

func validateSupplierCategory(c SupplierCategory) error {
	switch c {
	case SupplierCategoryFood, SupplierCategoryBeverages, SupplierCategoryEquipment,
		SupplierCategoryServices, SupplierCategoryOther:
		return nil
	default:
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid supplier category")
	}
}
