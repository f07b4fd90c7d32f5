package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository/postgres"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		u := &domain.User{Username: "skipper", PasswordHash: "hash", Role: domain.UserRoleMember, Balance: domain.ZeroMoney}

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("skipper", "hash", "", "", domain.UserRoleMember, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		err := repo.Create(ctx, u)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), u.ID)
		assert.False(t, u.CreatedAt.IsZero())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_LockForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "skipper", "hash", "s@club.org", "", "member", "100.00", now, now))

		u, err := repo.LockForUpdate(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "skipper", u.Username)
		assert.Equal(t, "100.00", u.Balance.String())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(2)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.LockForUpdate(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance=\\$1, updated_at=\\$2 WHERE id=\\$3").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateBalance(ctx, 1, domain.MustMoney("70.00")))
	})

	t.Run("Missing user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET balance").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int32(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateBalance(ctx, 9, domain.MustMoney("1.00")), domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
