package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormPaymentRepository implements ledger.PaymentRepository using GORM.
// A payment and its installment splits are written in one transaction.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForBusiness finds a payment by ID within a business
func (r *GormPaymentRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*ledger.Payment, error) {
	var payment ledger.Payment
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAllForBusiness finds all payments for a business
func (r *GormPaymentRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]ledger.Payment, error) {
	return r.findPayments(ctx, filter, "business_id = ?", businessID)
}

// FindBySupplier finds payments for a supplier
func (r *GormPaymentRepository) FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]ledger.Payment, error) {
	return r.findPayments(ctx, filter, "business_id = ? AND supplier_id = ?", businessID, supplierID)
}

func (r *GormPaymentRepository) findPayments(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]ledger.Payment, error) {
	query := r.db.WithContext(ctx).Where(cond, args...)
	query = applyPaymentFilters(query, filter)
	query, err := applyFilter(query, filter, PaymentSortFields, "first_due_date DESC, created_at DESC")
	if err != nil {
		return nil, err
	}

	var payments []ledger.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountForBusiness counts payments for a business
func (r *GormPaymentRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.Payment{}).Where("business_id = ?", businessID)
	query = applyPaymentFilters(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a payment without touching its splits
func (r *GormPaymentRepository) Save(ctx context.Context, payment *ledger.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithSplits saves a payment and atomically replaces its splits
func (r *GormPaymentRepository) SaveWithSplits(ctx context.Context, payment *ledger.Payment, splits []ledger.PaymentSplit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_id = ?", payment.ID).Delete(&ledger.PaymentSplit{}).Error; err != nil {
			return err
		}
		if len(splits) == 0 {
			return nil
		}
		return tx.Create(&splits).Error
	})
}

// DeleteForBusiness deletes a payment and its splits within a business
func (r *GormPaymentRepository) DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ? AND payment_id = ?", businessID, id).
			Delete(&ledger.PaymentSplit{}).Error; err != nil {
			return err
		}

		result := tx.Where("business_id = ? AND id = ?", businessID, id).Delete(&ledger.Payment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindSplitsByPayment returns a payment's splits ordered by sequence
func (r *GormPaymentRepository) FindSplitsByPayment(ctx context.Context, businessID, paymentID uuid.UUID) ([]ledger.PaymentSplit, error) {
	var splits []ledger.PaymentSplit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND payment_id = ?", businessID, paymentID).
		Order("seq ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

// FindSplitByID finds a single split within a business
func (r *GormPaymentRepository) FindSplitByID(ctx context.Context, businessID, splitID uuid.UUID) (*ledger.PaymentSplit, error) {
	var split ledger.PaymentSplit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, splitID).
		First(&split).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &split, nil
}

// FindUnpaidSplitsDueBetween returns unpaid splits with due dates in [from, to)
func (r *GormPaymentRepository) FindUnpaidSplitsDueBetween(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]ledger.PaymentSplit, error) {
	var splits []ledger.PaymentSplit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND paid = ? AND due_date >= ? AND due_date < ?", businessID, false, from, to).
		Order("due_date ASC, seq ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

// FindUnpaidSplits returns all unpaid splits for a business
func (r *GormPaymentRepository) FindUnpaidSplits(ctx context.Context, businessID uuid.UUID) ([]ledger.PaymentSplit, error) {
	var splits []ledger.PaymentSplit
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND paid = ?", businessID, false).
		Order("due_date ASC, seq ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

// SaveSplit updates a single split
func (r *GormPaymentRepository) SaveSplit(ctx context.Context, split *ledger.PaymentSplit) error {
	return r.db.WithContext(ctx).Save(split).Error
}

// SumSplitsDueInMonth sums all splits whose due date falls in the month
// containing the given date
func (r *GormPaymentRepository) SumSplitsDueInMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (decimal.Decimal, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&ledger.PaymentSplit{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("business_id = ? AND due_date >= ? AND due_date < ?", businessID, from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func applyPaymentFilters(db *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			db = db.Where("status = ?", value)
		case "method":
			db = db.Where("method = ?", value)
		case "supplier_id":
			db = db.Where("supplier_id = ?", value)
		case "invoice_id":
			db = db.Where("invoice_id = ?", value)
		}
	}
	return db
}
