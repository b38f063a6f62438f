package daily

import (
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IncomeSource is a named revenue channel the business records daily
// takings against (e.g. מזומן, אשראי, משלוחים).
type IncomeSource struct {
	shared.BusinessAggregateRoot
	Name      string `gorm:"type:varchar(100);not null"`
	SortOrder int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (IncomeSource) TableName() string {
	return "income_sources"
}

// NewIncomeSource creates a new active income source
func NewIncomeSource(businessID uuid.UUID, name string, sortOrder int) (*IncomeSource, error) {
	if err := validateChannelName(name); err != nil {
		return nil, err
	}

	s := &IncomeSource{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Name:                  strings.TrimSpace(name),
		SortOrder:             sortOrder,
		Active:                true,
	}

	s.AddDomainEvent(NewIncomeSourceCreatedEvent(s))

	return s, nil
}

// Rename changes the source's display name
func (s *IncomeSource) Rename(name string) error {
	if err := validateChannelName(name); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(name)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// SetSortOrder sets the display order
func (s *IncomeSource) SetSortOrder(order int) {
	s.SortOrder = order
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate hides the source from new entries. Historical daily entry
// lines referencing it are kept.
func (s *IncomeSource) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Income source is already inactive")
	}
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Activate re-enables the source
func (s *IncomeSource) Activate() error {
	if s.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Income source is already active")
	}
	s.Active = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func validateChannelName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
