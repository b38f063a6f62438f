package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// PaymentService schedules supplier payments and tracks their installments
type PaymentService struct {
	paymentRepo    ledger.PaymentRepository
	supplierRepo   ledger.SupplierRepository
	invoiceRepo    ledger.InvoiceRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
	now            func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo ledger.PaymentRepository,
	supplierRepo ledger.SupplierRepository,
	invoiceRepo ledger.InvoiceRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		supplierRepo:   supplierRepo,
		invoiceRepo:    invoiceRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
		now:            time.Now,
	}
}

// CreatePayment schedules a payment and generates its installment splits.
// A zero FirstDueDate falls back to the supplier's EOM+N terms applied to
// the purchase date (or today when that is zero too).
func (s *PaymentService) CreatePayment(ctx context.Context, businessID uuid.UUID, input CreatePaymentInput) (*PaymentInfo, error) {
	supplier, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, input.SupplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
		}
		s.logger.Error("Failed to load supplier", zap.Error(err))
		return nil, err
	}

	installments := input.Installments
	if installments == 0 {
		installments = 1
	}

	firstDue := input.FirstDueDate
	if firstDue.IsZero() {
		purchaseDate := input.Date
		if purchaseDate.IsZero() {
			purchaseDate = s.now()
		}
		firstDue = supplier.DefaultDueDate(purchaseDate)
	}

	payment, err := ledger.NewPayment(businessID, input.SupplierID, input.Amount, ledger.PaymentMethod(input.Method), installments, firstDue)
	if err != nil {
		return nil, err
	}
	payment.Notes = input.Notes

	if input.InvoiceID != nil {
		if _, err := s.invoiceRepo.FindByIDForBusiness(ctx, businessID, *input.InvoiceID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
			}
			s.logger.Error("Failed to load invoice", zap.Error(err))
			return nil, err
		}
		payment.LinkInvoice(*input.InvoiceID)
	}

	splits := payment.BuildSplits()

	if err := s.paymentRepo.SaveWithSplits(ctx, payment, splits); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_SAVE_FAILED", "Failed to save payment")
	}

	s.publishEvents(ctx, payment)
	s.notifyChange(ctx, businessID, payment.ID, shared.ChangeActionInsert)

	s.logger.Info("Payment scheduled",
		zap.String("business_id", businessID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.Int("installments", payment.Installments))

	info := toPaymentInfo(payment, splits, s.now())
	return &info, nil
}

// GetPayment returns a payment with its installments
func (s *PaymentService) GetPayment(ctx context.Context, businessID, paymentID uuid.UUID) (*PaymentInfo, error) {
	payment, err := s.find(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	splits, err := s.paymentRepo.FindSplitsByPayment(ctx, businessID, paymentID)
	if err != nil {
		s.logger.Error("Failed to load splits", zap.Error(err))
		return nil, err
	}

	info := toPaymentInfo(payment, splits, s.now())
	return &info, nil
}

// ListPayments returns payments for a business, without their splits
func (s *PaymentService) ListPayments(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]PaymentInfo, error) {
	items, err := s.paymentRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, err
	}

	infos := make([]PaymentInfo, len(items))
	for i := range items {
		infos[i] = toPaymentInfo(&items[i], nil, s.now())
	}
	return infos, nil
}

// ListBySupplier returns a supplier's payments
func (s *PaymentService) ListBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]PaymentInfo, error) {
	items, err := s.paymentRepo.FindBySupplier(ctx, businessID, supplierID, filter)
	if err != nil {
		s.logger.Error("Failed to list supplier payments", zap.Error(err))
		return nil, err
	}

	infos := make([]PaymentInfo, len(items))
	for i := range items {
		infos[i] = toPaymentInfo(&items[i], nil, s.now())
	}
	return infos, nil
}

// Reschedule replaces a pending payment's terms and regenerates its splits
func (s *PaymentService) Reschedule(ctx context.Context, businessID, paymentID uuid.UUID, input ReschedulePaymentInput) (*PaymentInfo, error) {
	payment, err := s.find(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}

	if err := payment.Reschedule(input.Amount, input.Installments, input.FirstDueDate); err != nil {
		return nil, err
	}

	splits := payment.BuildSplits()

	if err := s.paymentRepo.SaveWithSplits(ctx, payment, splits); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_SAVE_FAILED", "Failed to save payment")
	}

	s.publishEvents(ctx, payment)
	s.notifyChange(ctx, businessID, payment.ID, shared.ChangeActionUpdate)

	info := toPaymentInfo(payment, splits, s.now())
	return &info, nil
}

// MarkSplitPaid settles one installment and rederives the payment status
func (s *PaymentService) MarkSplitPaid(ctx context.Context, businessID, splitID uuid.UUID) (*PaymentInfo, error) {
	return s.setSplitPaid(ctx, businessID, splitID, true)
}

// MarkSplitUnpaid reverts a settled installment
func (s *PaymentService) MarkSplitUnpaid(ctx context.Context, businessID, splitID uuid.UUID) (*PaymentInfo, error) {
	return s.setSplitPaid(ctx, businessID, splitID, false)
}

func (s *PaymentService) setSplitPaid(ctx context.Context, businessID, splitID uuid.UUID, paid bool) (*PaymentInfo, error) {
	split, err := s.paymentRepo.FindSplitByID(ctx, businessID, splitID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SPLIT_NOT_FOUND", "Installment not found")
		}
		s.logger.Error("Failed to load split", zap.Error(err))
		return nil, err
	}

	if paid {
		err = split.MarkPaid(s.now())
	} else {
		err = split.MarkUnpaid()
	}
	if err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveSplit(ctx, split); err != nil {
		s.logger.Error("Failed to save split", zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_SAVE_FAILED", "Failed to save installment")
	}

	payment, err := s.find(ctx, businessID, split.PaymentID)
	if err != nil {
		return nil, err
	}

	splits, err := s.paymentRepo.FindSplitsByPayment(ctx, businessID, payment.ID)
	if err != nil {
		s.logger.Error("Failed to load splits", zap.Error(err))
		return nil, err
	}

	payment.RecomputeStatus(splits)
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_SAVE_FAILED", "Failed to save payment")
	}

	s.notifyChange(ctx, businessID, payment.ID, shared.ChangeActionUpdate)

	info := toPaymentInfo(payment, splits, s.now())
	return &info, nil
}

// DeletePayment removes a payment and its splits
func (s *PaymentService) DeletePayment(ctx context.Context, businessID, paymentID uuid.UUID) error {
	if _, err := s.find(ctx, businessID, paymentID); err != nil {
		return err
	}

	if err := s.paymentRepo.DeleteForBusiness(ctx, businessID, paymentID); err != nil {
		s.logger.Error("Failed to delete payment", zap.Error(err))
		return shared.NewDomainError("PAYMENT_DELETE_FAILED", "Failed to delete payment")
	}

	s.notifyChange(ctx, businessID, paymentID, shared.ChangeActionDelete)
	return nil
}

func (s *PaymentService) find(ctx context.Context, businessID, paymentID uuid.UUID) (*ledger.Payment, error) {
	payment, err := s.paymentRepo.FindByIDForBusiness(ctx, businessID, paymentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
		}
		s.logger.Error("Failed to load payment", zap.Error(err))
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, payment *ledger.Payment) {
	events := payment.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish payment events", zap.Error(err))
	}
	payment.ClearDomainEvents()
}

func (s *PaymentService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      ledger.Payment{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
