package daily

import (
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCategory classifies a managed product for cost reporting
type ProductCategory string

const (
	ProductCategoryFood      ProductCategory = "food"
	ProductCategoryBeverages ProductCategory = "beverages"
	ProductCategorySupplies  ProductCategory = "supplies"
	ProductCategoryOther     ProductCategory = "other"
)

// ManagedProduct is a cost item the business tracks daily usage of,
// priced per unit so usage quantities convert to cost amounts.
type ManagedProduct struct {
	shared.BusinessAggregateRoot
	Name      string          `gorm:"type:varchar(100);not null"`
	Category  ProductCategory `gorm:"type:varchar(20);not null;default:'food'"`
	Unit      string          `gorm:"type:varchar(20);not null;default:'unit'"`
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SortOrder int             `gorm:"not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ManagedProduct) TableName() string {
	return "managed_products"
}

// NewManagedProduct creates a new active managed product
func NewManagedProduct(businessID uuid.UUID, name string, category ProductCategory, unit string, unitCost decimal.Decimal) (*ManagedProduct, error) {
	if err := validateChannelName(name); err != nil {
		return nil, err
	}
	if !isValidProductCategory(category) {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Invalid product category")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}

	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "unit"
	}

	p := &ManagedProduct{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  strings.TrimSpace(name),
		Category:              category,
		Unit:                  unit,
		UnitCost:              unitCost,
		Active:                true,
	}

	p.AddDomainEvent(NewManagedProductCreatedEvent(p))

	return p, nil
}

// Update changes the product's details
func (p *ManagedProduct) Update(name string, category ProductCategory, unit string, unitCost decimal.Decimal) error {
	if err := validateChannelName(name); err != nil {
		return err
	}
	if !isValidProductCategory(category) {
		return shared.NewDomainError("INVALID_CATEGORY", "Invalid product category")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}

	p.Name = strings.TrimSpace(name)
	p.Category = category
	if unit = strings.TrimSpace(unit); unit != "" {
		p.Unit = unit
	}
	p.UnitCost = unitCost
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetSortOrder sets the display order
func (p *ManagedProduct) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate hides the product from new entries
func (p *ManagedProduct) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate re-enables the product
func (p *ManagedProduct) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func isValidProductCategory(c ProductCategory) bool {
	switch c {
	case ProductCategoryFood, ProductCategoryBeverages, ProductCategorySupplies, ProductCategoryOther:
		return true
	}
	return false
}
