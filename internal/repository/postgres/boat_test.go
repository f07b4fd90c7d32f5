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

func TestBoatRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBoatRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Filtered by status", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM boats WHERE status = \\$1 ORDER BY id LIMIT \\$2 OFFSET \\$3").
			WithArgs(domain.BoatStatusAvailable, int32(10), int32(0)).
			WillReturnRows(sqlmock.NewRows(boatCols).
				AddRow(1, "Laser 1", "dinghy", "AVAILABLE", "30.00", "", "", now, now).
				AddRow(2, "Laser 2", "dinghy", "AVAILABLE", "30.00", "", "", now, now))

		boats, err := repo.List(ctx, domain.BoatStatusAvailable, 0, 10)
		require.NoError(t, err)
		assert.Len(t, boats, 2)
		assert.Equal(t, "30.00", boats[0].RentalPrice.String())
	})

	t.Run("Unfiltered uses default limit", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM boats ORDER BY id LIMIT \\$1 OFFSET \\$2").
			WithArgs(int32(100), int32(0)).
			WillReturnRows(sqlmock.NewRows(boatCols))

		boats, err := repo.List(ctx, "", 0, 0)
		require.NoError(t, err)
		assert.Empty(t, boats)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoatRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewBoatRepository(db)
	ctx := context.Background()

	boat := &domain.Boat{ID: 3, Name: "Topper", Status: domain.BoatStatusRented, RentalPrice: domain.MustMoney("20.00")}

	mock.ExpectExec("UPDATE boats SET").
		WithArgs("Topper", "", domain.BoatStatusRented, sqlmock.AnyArg(), "", "", sqlmock.AnyArg(), int32(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(ctx, boat))
	assert.NoError(t, mock.ExpectationsWereMet())
}
