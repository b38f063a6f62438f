package goals

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/goals"
	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

type memoryGoalRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*goals.Goal
}

func newMemoryGoalRepo() *memoryGoalRepo {
	return &memoryGoalRepo{items: make(map[uuid.UUID]*goals.Goal)}
}

func (r *memoryGoalRepo) FindByID(_ context.Context, id uuid.UUID) (*goals.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return g, nil
}

func (r *memoryGoalRepo) FindByIDForBusiness(_ context.Context, businessID, id uuid.UUID) (*goals.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok || g.BusinessID != businessID {
		return nil, shared.ErrNotFound
	}
	return g, nil
}

func (r *memoryGoalRepo) FindByMonth(_ context.Context, businessID uuid.UUID, month time.Time) (*goals.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.items {
		if g.BusinessID == businessID && g.Month.Equal(month) {
			return g, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryGoalRepo) FindAllForBusiness(_ context.Context, businessID uuid.UUID, _ shared.Filter) ([]goals.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []goals.Goal
	for _, g := range r.items {
		if g.BusinessID == businessID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *memoryGoalRepo) ExistsByMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (bool, error) {
	_, err := r.FindByMonth(ctx, businessID, month)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memoryGoalRepo) Save(_ context.Context, goal *goals.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[goal.ID] = goal
	return nil
}

func (r *memoryGoalRepo) DeleteForBusiness(_ context.Context, businessID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.items[id]; ok && g.BusinessID == businessID {
		delete(r.items, id)
	}
	return nil
}

func TestGoalService_Upsert(t *testing.T) {
	svc := NewGoalService(newMemoryGoalRepo(), nil, nil, zap.NewNop())
	businessID := uuid.New()

	t.Run("creates goal on first upsert", func(t *testing.T) {
		info, err := svc.UpsertGoal(context.Background(), businessID, UpsertGoalInput{
			Month:             "2026-08",
			RevenueTarget:     dec("250000"),
			LaborPctTarget:    dec("28"),
			FoodCostPctTarget: dec("30"),
			ExpenseTarget:     dec("60000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-08", info.Month)
		assert.True(t, info.RevenueTarget.Equal(dec("250000")))
	})

	t.Run("second upsert updates the same month", func(t *testing.T) {
		info, err := svc.UpsertGoal(context.Background(), businessID, UpsertGoalInput{
			Month:         "2026-08-15",
			RevenueTarget: dec("280000"),
			Notes:         "עדכון אחרי שיפוץ",
		})
		require.NoError(t, err)
		assert.True(t, info.RevenueTarget.Equal(dec("280000")))
		assert.Equal(t, "עדכון אחרי שיפוץ", info.Notes)

		all, err := svc.ListGoals(context.Background(), businessID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("invalid month rejected", func(t *testing.T) {
		_, err := svc.UpsertGoal(context.Background(), businessID, UpsertGoalInput{Month: "August"})
		require.Error(t, err)
	})

	t.Run("percent target over 100 rejected", func(t *testing.T) {
		_, err := svc.UpsertGoal(context.Background(), businessID, UpsertGoalInput{
			Month:          "2026-09",
			LaborPctTarget: dec("130"),
		})
		require.Error(t, err)
	})
}

func TestGoalService_GetAndDelete(t *testing.T) {
	svc := NewGoalService(newMemoryGoalRepo(), nil, nil, zap.NewNop())
	businessID := uuid.New()

	info, err := svc.UpsertGoal(context.Background(), businessID, UpsertGoalInput{
		Month:         "2026-08",
		RevenueTarget: dec("100000"),
	})
	require.NoError(t, err)

	got, err := svc.GetGoal(context.Background(), businessID, "2026-08")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info.ID, got.ID)

	t.Run("missing month returns nil", func(t *testing.T) {
		got, err := svc.GetGoal(context.Background(), businessID, "2026-12")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete removes the goal", func(t *testing.T) {
		require.NoError(t, svc.DeleteGoal(context.Background(), businessID, info.ID))
		got, err := svc.GetGoal(context.Background(), businessID, "2026-08")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete unknown goal fails", func(t *testing.T) {
		err := svc.DeleteGoal(context.Background(), businessID, uuid.New())
		require.Error(t, err)
	})
}

// Dashboard stubs override only the methods the dashboard touches.

type stubScheduleRepo struct {
	business.ScheduleRepository
	week business.WeekSchedule
}

func (s *stubScheduleRepo) FindByBusiness(_ context.Context, _ uuid.UUID) (business.WeekSchedule, error) {
	return s.week, nil
}

type stubEntryRepo struct {
	daily.DailyEntryRepository
	totals daily.MonthTotals
}

func (s *stubEntryRepo) SumMonth(_ context.Context, _ uuid.UUID, _ time.Time) (*daily.MonthTotals, error) {
	totals := s.totals
	return &totals, nil
}

type stubPaymentRepo struct {
	ledger.PaymentRepository
	expenses decimal.Decimal
}

func (s *stubPaymentRepo) SumSplitsDueInMonth(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return s.expenses, nil
}

func TestDashboardService_GetDashboard(t *testing.T) {
	businessID := uuid.New()
	goalRepo := newMemoryGoalRepo()

	goal, err := goals.NewGoal(businessID,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		dec("200000"), dec("30"), dec("28"), dec("50000"))
	require.NoError(t, err)
	require.NoError(t, goalRepo.Save(context.Background(), goal))

	svc := NewDashboardService(
		goalRepo,
		&stubScheduleRepo{},
		&stubEntryRepo{totals: daily.MonthTotals{
			Revenue:   dec("100000"),
			LaborCost: dec("25000"),
			UsageCost: dec("30000"),
			EntryDays: 15,
		}},
		&stubPaymentRepo{expenses: dec("20000")},
		zap.NewNop(),
	)
	// Mid-month so pacing covers half the month
	svc.now = func() time.Time {
		return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	}

	result, err := svc.GetDashboard(context.Background(), businessID, "2026-08")
	require.NoError(t, err)

	assert.Equal(t, "2026-08", result.Month)
	require.NotNil(t, result.Goal)
	assert.Equal(t, 15, result.EntryDays)

	p := result.Progress
	assert.True(t, p.HasGoal)
	// 100000 / 200000
	assert.True(t, p.Revenue.AttainmentPct.Equal(dec("50")), "got %s", p.Revenue.AttainmentPct)
	// No schedule rows: every day open, 15 of 31 elapsed
	assert.Equal(t, 31, p.OpenDaysInMonth)
	assert.Equal(t, 15, p.OpenDaysElapsed)
	// Labor 25% vs 30% target
	assert.True(t, p.Labor.ActualPct.Equal(dec("25")))
	assert.True(t, p.Labor.OnTrack)
	// Food cost 30% vs 28% target
	assert.True(t, p.FoodCost.ActualPct.Equal(dec("30")))
	assert.False(t, p.FoodCost.OnTrack)
	// Expenses well under target
	assert.True(t, p.Expenses.Actual.Equal(dec("20000")))

	t.Run("month without goal still returns actuals", func(t *testing.T) {
		result, err := svc.GetDashboard(context.Background(), businessID, "2026-07")
		require.NoError(t, err)
		assert.Nil(t, result.Goal)
		assert.False(t, result.Progress.HasGoal)
		assert.True(t, result.Progress.Revenue.Actual.Equal(dec("100000")))
		// Past month counts in full
		assert.Equal(t, result.Progress.OpenDaysInMonth, result.Progress.OpenDaysElapsed)
	})

	t.Run("future month has no elapsed days", func(t *testing.T) {
		result, err := svc.GetDashboard(context.Background(), businessID, "2026-09")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Progress.OpenDaysElapsed)
	})
}

func TestDashboardService_ScheduleDrivenPacing(t *testing.T) {
	businessID := uuid.New()

	// Open Sunday through Thursday, closed Friday and Saturday
	var week business.WeekSchedule
	for weekday := 0; weekday <= 4; weekday++ {
		day, err := business.NewScheduleDay(businessID, weekday, true, "09:00", "22:00")
		require.NoError(t, err)
		week = append(week, *day)
	}
	for weekday := 5; weekday <= 6; weekday++ {
		day, err := business.NewScheduleDay(businessID, weekday, false, "", "")
		require.NoError(t, err)
		week = append(week, *day)
	}

	svc := NewDashboardService(
		newMemoryGoalRepo(),
		&stubScheduleRepo{week: week},
		&stubEntryRepo{},
		&stubPaymentRepo{expenses: decimal.Zero},
		zap.NewNop(),
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}

	result, err := svc.GetDashboard(context.Background(), businessID, "2026-08")
	require.NoError(t, err)

	// August 2026 starts on a Saturday and has 22 Sunday-Thursday days
	assert.Equal(t, 22, result.Progress.OpenDaysInMonth)
	assert.Equal(t, 22, result.Progress.OpenDaysElapsed)
}
