package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/shared"
)

func TestGormDailyEntryRepository_Save(t *testing.T) {
	businessID := uuid.New()
	sourceID := uuid.New()

	t.Run("replaces line items in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormDailyEntryRepository(db)

		entry := daily.NewDailyEntry(businessID, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, entry.SetRevenueLines([]daily.RevenueLine{
			{IncomeSourceID: sourceID, Amount: decimal.NewFromInt(2500)},
		}))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "daily_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "daily_entry_revenues" WHERE entry_id = \$1`).
			WithArgs(entry.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "daily_entry_usages" WHERE entry_id = \$1`).
			WithArgs(entry.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO "daily_entry_revenues"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips line inserts for an empty entry", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormDailyEntryRepository(db)

		entry := daily.NewDailyEntry(businessID, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "daily_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "daily_entry_revenues"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "daily_entry_usages"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Save(context.Background(), entry)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDailyEntryRepository_FindByDate(t *testing.T) {
	businessID := uuid.New()

	t.Run("queries by the truncated calendar date", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormDailyEntryRepository(db)

		entryID := uuid.New()
		date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "business_id", "date", "labor_cost", "customer_cnt"}).
			AddRow(entryID, businessID, date, "900.00", 85)
		mock.ExpectQuery(`SELECT \* FROM "daily_entries" WHERE business_id = \$1 AND date = \$2`).
			WithArgs(businessID, date, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT \* FROM "daily_entry_revenues" WHERE "daily_entry_revenues"\."entry_id" = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "income_source_id", "amount"}))
		mock.ExpectQuery(`SELECT \* FROM "daily_entry_usages" WHERE "daily_entry_usages"\."entry_id" = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "entry_id", "product_id", "quantity", "cost"}))

		// Passes a timestamp mid-day; only the date part may reach the query.
		entry, err := repo.FindByDate(context.Background(), businessID,
			time.Date(2026, 8, 20, 17, 30, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, entryID, entry.ID)
		assert.Equal(t, 85, entry.CustomerCnt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing date to ErrNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormDailyEntryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "daily_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByDate(context.Background(), businessID, time.Now())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
