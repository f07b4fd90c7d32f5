package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository/postgres"
)

func TestFinanceRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFinanceRepository(db)
	ctx := context.Background()
	userID := int32(7)

	t.Run("User and type filter", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM finances WHERE user_id = \\$1 AND type = \\$2 ORDER BY created_at DESC, id DESC LIMIT \\$3 OFFSET \\$4").
			WithArgs(userID, domain.FinanceTypeIncome, int32(20), int32(40)).
			WillReturnRows(sqlmock.NewRows(financeCols).AddRow(1, 7, "INCOME", "100.00", "Account deposit", time.Now()))

		entries, err := repo.List(ctx, domain.FinanceFilter{UserID: &userID, Type: domain.FinanceTypeIncome, Offset: 40, Limit: 20})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int32(7), *entries[0].UserID)
		assert.Equal(t, "100.00", entries[0].Amount.String())
	})

	t.Run("Club entry has no user", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM finances ORDER BY").
			WithArgs(int32(100), int32(0)).
			WillReturnRows(sqlmock.NewRows(financeCols).AddRow(2, nil, "EXPENSE", "45.10", "Sail repair", time.Now()))

		entries, err := repo.List(ctx, domain.FinanceFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].UserID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_Totals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFinanceRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM finances").
		WillReturnRows(sqlmock.NewRows([]string{"total_income", "total_expense", "transaction_count"}).AddRow("100.00", "30.00", 2))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.TotalIncome.String())
	assert.Equal(t, "30.00", totals.TotalExpense.String())
	assert.Equal(t, int64(2), totals.TransactionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinanceRepository_NetByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewFinanceRepository(db)

	mock.ExpectQuery("SELECT user_id,(.+)GROUP BY user_id").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "net"}).AddRow(1, "70.00").AddRow(2, "-5.00"))

	sums, err := repo.NetByUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "70.00", sums[1].String())
	assert.Equal(t, "-5.00", sums[2].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
