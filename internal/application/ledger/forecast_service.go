package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/ledger"
)

const defaultForecastMonths = 6

// ForecastService builds the cash-flow commitment outlook from unpaid
// installments
type ForecastService struct {
	paymentRepo ledger.PaymentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewForecastService creates a new forecast service
func NewForecastService(paymentRepo ledger.PaymentRepository, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		paymentRepo: paymentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// GetForecast buckets the business's unpaid installments by due month over
// the given horizon. A non-positive monthCount uses the default horizon.
func (s *ForecastService) GetForecast(ctx context.Context, businessID uuid.UUID, monthCount int) (*ledger.Forecast, error) {
	if monthCount <= 0 {
		monthCount = defaultForecastMonths
	}

	splits, err := s.paymentRepo.FindUnpaidSplits(ctx, businessID)
	if err != nil {
		s.logger.Error("Failed to load unpaid splits", zap.Error(err))
		return nil, err
	}

	forecast := ledger.BuildForecast(splits, s.now().UTC(), monthCount)
	return &forecast, nil
}
