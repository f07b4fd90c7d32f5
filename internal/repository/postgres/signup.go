package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const signupColumns = `id, activity_id, user_id, signup_time, check_in`

type signupRepository struct {
	db sqlx.ExtContext
}

func NewSignupRepository(db sqlx.ExtContext) repository.SignupRepository {
	return &signupRepository{db: db}
}

// Create relies on UNIQUE(activity_id, user_id) as the last line against a
// duplicate slipping past the service check.
func (r *signupRepository) Create(ctx context.Context, s *domain.Signup) error {
	query := `INSERT INTO activity_signups (activity_id, user_id, signup_time, check_in)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, s.ActivityID, s.UserID, s.SignupTime, s.CheckIn).Scan(&s.ID)
	return mapError(err, "signup")
}

func (r *signupRepository) Get(ctx context.Context, activityID, userID int32) (*domain.Signup, error) {
	var s domain.Signup
	query := `SELECT ` + signupColumns + ` FROM activity_signups WHERE activity_id = $1 AND user_id = $2`
	if err := sqlx.GetContext(ctx, r.db, &s, query, activityID, userID); err != nil {
		return nil, mapError(err, "signup")
	}
	return &s, nil
}

func (r *signupRepository) LockForUpdate(ctx context.Context, activityID, userID int32) (*domain.Signup, error) {
	var s domain.Signup
	query := `SELECT ` + signupColumns + ` FROM activity_signups WHERE activity_id = $1 AND user_id = $2 FOR UPDATE`
	if err := sqlx.GetContext(ctx, r.db, &s, query, activityID, userID); err != nil {
		return nil, mapError(err, "signup")
	}
	return &s, nil
}

func (r *signupRepository) CountByActivity(ctx context.Context, activityID int32) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM activity_signups WHERE activity_id = $1`, activityID)
	return n, mapError(err, "signups")
}

func (r *signupRepository) ListByActivity(ctx context.Context, activityID int32) ([]domain.Signup, error) {
	signups := []domain.Signup{}
	query := `SELECT ` + signupColumns + ` FROM activity_signups WHERE activity_id = $1 ORDER BY signup_time`
	if err := sqlx.SelectContext(ctx, r.db, &signups, query, activityID); err != nil {
		return nil, mapError(err, "signups")
	}
	return signups, nil
}

func (r *signupRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Signup, error) {
	signups := []domain.Signup{}
	query := `SELECT ` + signupColumns + ` FROM activity_signups WHERE user_id = $1 ORDER BY signup_time DESC`
	if err := sqlx.SelectContext(ctx, r.db, &signups, query, userID); err != nil {
		return nil, mapError(err, "signups")
	}
	return signups, nil
}

func (r *signupRepository) SetCheckIn(ctx context.Context, id int32, checkIn bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE activity_signups SET check_in=$1 WHERE id=$2`, checkIn, id)
	if err != nil {
		return mapError(err, "signup")
	}
	return expectAffected(res, "signup")
}

func (r *signupRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activity_signups WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "signup")
	}
	return expectAffected(res, "signup")
}
