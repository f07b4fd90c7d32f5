package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const activityColumns = `id, title, description, location, start_time, end_time, max_participants, creator_id, created_at, updated_at`

type activityRepository struct {
	db sqlx.ExtContext
}

func NewActivityRepository(db sqlx.ExtContext) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.Activity) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	query := `INSERT INTO activities (title, description, location, start_time, end_time, max_participants, creator_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, a.Title, a.Description, a.Location, a.StartTime, a.EndTime, a.MaxParticipants, a.CreatorID, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	return mapError(err, "activity")
}

func (r *activityRepository) GetByID(ctx context.Context, id int32) (*domain.Activity, error) {
	var a domain.Activity
	if err := sqlx.GetContext(ctx, r.db, &a, `SELECT `+activityColumns+` FROM activities WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "activity")
	}
	return &a, nil
}

func (r *activityRepository) List(ctx context.Context, offset, limit int32) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	query := `SELECT ` + activityColumns + ` FROM activities ORDER BY start_time DESC LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &activities, query, limitOrDefault(limit), offset); err != nil {
		return nil, mapError(err, "activities")
	}
	return activities, nil
}

func (r *activityRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Activity, error) {
	var a domain.Activity
	if err := sqlx.GetContext(ctx, r.db, &a, `SELECT `+activityColumns+` FROM activities WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, mapError(err, "activity")
	}
	return &a, nil
}

func (r *activityRepository) LockByCreator(ctx context.Context, creatorID int32) ([]int32, error) {
	ids := []int32{}
	query := `SELECT id FROM activities WHERE creator_id = $1 ORDER BY id FOR UPDATE`
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, creatorID); err != nil {
		return nil, mapError(err, "activities")
	}
	return ids, nil
}

func (r *activityRepository) Update(ctx context.Context, a *domain.Activity) error {
	a.UpdatedAt = time.Now().UTC()
	query := `UPDATE activities SET title=$1, description=$2, location=$3, start_time=$4, end_time=$5, max_participants=$6, updated_at=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, a.Title, a.Description, a.Location, a.StartTime, a.EndTime, a.MaxParticipants, a.UpdatedAt, a.ID)
	if err != nil {
		return mapError(err, "activity")
	}
	return expectAffected(res, "activity")
}

func (r *activityRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "activity")
	}
	return expectAffected(res, "activity")
}
