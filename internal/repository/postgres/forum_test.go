package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository/postgres"
)

func TestTagRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewTagRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO forum_tags \\(name\\) VALUES \\(\\$1\\) RETURNING id").
			WithArgs("Technical").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		tag := &domain.Tag{Name: "Technical"}
		require.NoError(t, repo.Create(ctx, tag))
		assert.Equal(t, int32(3), tag.ID)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO forum_tags").
			WithArgs("Technical").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.Tag{Name: "Technical"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewPostRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("All posts", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM posts ORDER BY created_at DESC, id DESC LIMIT \\$1 OFFSET \\$2").
			WithArgs(int32(100), int32(0)).
			WillReturnRows(sqlmock.NewRows(postCols).
				AddRow(2, "Reefing tips", "Reef early", nil, 1, now, now).
				AddRow(1, "Hello", "First post", 4, 1, now, now))

		posts, err := repo.List(ctx, nil, 0, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Nil(t, posts[0].TagID)
		require.NotNil(t, posts[1].TagID)
		assert.Equal(t, int32(4), *posts[1].TagID)
	})

	t.Run("Filtered by tag", func(t *testing.T) {
		tagID := int32(4)
		mock.ExpectQuery("SELECT (.+) FROM posts WHERE tag_id = \\$1 ORDER BY created_at DESC, id DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs(int32(4), int32(10), int32(20)).
			WillReturnRows(sqlmock.NewRows(postCols))

		posts, err := repo.List(ctx, &tagID, 20, 10)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_LockByAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewPostRepository(db)

	mock.ExpectQuery("SELECT id FROM posts WHERE user_id = \\$1 ORDER BY id FOR UPDATE").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(8))

	ids, err := repo.LockByAuthor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 8}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_LockByCreator(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewActivityRepository(db)

	mock.ExpectQuery("SELECT id FROM activities WHERE creator_id = \\$1 ORDER BY id FOR UPDATE").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	ids, err := repo.LockByCreator(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int32{2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoticeRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewNoticeRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM notices WHERE id = \\$1 FOR UPDATE").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows(noticeCols).AddRow(1, "Regatta", "Saturday", nil, now, now))
	mock.ExpectExec("UPDATE notices SET title=\\$1, content=\\$2, updated_at=\\$3 WHERE id=\\$4").
		WithArgs("Regatta", "Sunday", sqlmock.AnyArg(), int32(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.LockForUpdate(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, n.AuthorID)
	n.Content = "Sunday"
	require.NoError(t, repo.Update(ctx, n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewStatsRepository(db)
	ctx := context.Background()
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Counts", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) AS total_users").
			WillReturnRows(sqlmock.NewRows([]string{"total_users", "total_boats", "total_activities"}).AddRow(12, 4, 3))

		c, err := repo.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.ClubCounts{TotalUsers: 12, TotalBoats: 4, TotalActivities: 3}, *c)
	})

	t.Run("Income since", func(t *testing.T) {
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM finances WHERE type = 'INCOME' AND created_at >= \\$1").
			WithArgs(since).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("120.50"))

		total, err := repo.IncomeSince(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, "120.50", total.String())
	})

	t.Run("Income by month", func(t *testing.T) {
		mock.ExpectQuery("SELECT to_char\\(created_at AT TIME ZONE 'UTC', 'YYYY-MM'\\) AS month").
			WithArgs(since).
			WillReturnRows(sqlmock.NewRows([]string{"month", "amount", "count"}).
				AddRow("2026-05", "30.00", 1).
				AddRow("2026-07", "45.50", 2))

		months, err := repo.IncomeByMonth(ctx, since)
		require.NoError(t, err)
		assert.Len(t, months, 2)
		assert.Equal(t, "45.50", months["2026-07"].String())
	})

	t.Run("Boat usage", func(t *testing.T) {
		mock.ExpectQuery("FROM boats b LEFT JOIN boat_rentals r").
			WillReturnRows(sqlmock.NewRows([]string{"boat_id", "boat_name", "rental_count"}).
				AddRow(1, "Laser", 5).
				AddRow(2, "Topper", 0))

		usage, err := repo.BoatUsage(ctx)
		require.NoError(t, err)
		require.Len(t, usage, 2)
		assert.Equal(t, int64(0), usage[1].RentalCount)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
