package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/goals"
	"github.com/bizfin/backend/internal/domain/shared"
)

func setupGoalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&goals.Goal{}))
	return db
}

func newTestGoal(t *testing.T, businessID uuid.UUID, month time.Time) *goals.Goal {
	goal, err := goals.NewGoal(businessID, month,
		decimal.NewFromInt(120000),
		decimal.NewFromInt(28),
		decimal.NewFromInt(32),
		decimal.NewFromInt(45000))
	require.NoError(t, err)
	return goal
}

func TestGoalRepositorySaveAndFind(t *testing.T) {
	db := setupGoalTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	businessID := uuid.New()
	march := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	goal := newTestGoal(t, businessID, march)
	require.NoError(t, repo.Save(ctx, goal))

	t.Run("finds by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, goal.ID, found.ID)
		assert.True(t, found.RevenueTarget.Equal(decimal.NewFromInt(120000)))
	})

	t.Run("finds by ID within business", func(t *testing.T) {
		found, err := repo.FindByIDForBusiness(ctx, businessID, goal.ID)
		require.NoError(t, err)
		assert.Equal(t, goal.ID, found.ID)
	})

	t.Run("does not cross business boundaries", func(t *testing.T) {
		_, err := repo.FindByIDForBusiness(ctx, uuid.New(), goal.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by month regardless of day", func(t *testing.T) {
		found, err := repo.FindByMonth(ctx, businessID,
			time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, goal.ID, found.ID)
		assert.True(t, found.Month.Equal(goals.MonthOf(march)))
	})

	t.Run("missing month returns not found", func(t *testing.T) {
		_, err := repo.FindByMonth(ctx, businessID,
			time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGoalRepositoryExistsByMonth(t *testing.T) {
	db := setupGoalTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	businessID := uuid.New()
	month := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, newTestGoal(t, businessID, month)))

	exists, err := repo.ExistsByMonth(ctx, businessID, month)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByMonth(ctx, businessID, month.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByMonth(ctx, uuid.New(), month)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGoalRepositoryFindAllForBusiness(t *testing.T) {
	db := setupGoalTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	businessID := uuid.New()
	for m := time.Month(1); m <= 3; m++ {
		goal := newTestGoal(t, businessID, time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, repo.Save(ctx, goal))
	}
	other := newTestGoal(t, uuid.New(), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, other))

	t.Run("defaults to newest month first", func(t *testing.T) {
		result, err := repo.FindAllForBusiness(ctx, businessID, shared.Filter{Page: 1, PageSize: 20})
		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, time.March, result[0].Month.Month())
		assert.Equal(t, time.January, result[2].Month.Month())
	})

	t.Run("honors explicit sort field", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "month"
		filter.OrderDir = "asc"

		result, err := repo.FindAllForBusiness(ctx, businessID, filter)
		require.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, time.January, result[0].Month.Month())
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "revenue_target; DROP TABLE goals"

		_, err := repo.FindAllForBusiness(ctx, businessID, filter)
		assert.Error(t, err)
	})
}

func TestGoalRepositoryDeleteForBusiness(t *testing.T) {
	db := setupGoalTestDB(t)
	repo := NewGormGoalRepository(db)
	ctx := context.Background()

	businessID := uuid.New()
	goal := newTestGoal(t, businessID, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, goal))

	t.Run("refuses delete from another business", func(t *testing.T) {
		err := repo.DeleteForBusiness(ctx, uuid.New(), goal.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("deletes within the owning business", func(t *testing.T) {
		require.NoError(t, repo.DeleteForBusiness(ctx, businessID, goal.ID))

		_, err := repo.FindByID(ctx, goal.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
