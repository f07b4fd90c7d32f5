package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const boatColumns = `id, name, type, status, rental_price, image_url, description, created_at, updated_at`

type boatRepository struct {
	db sqlx.ExtContext
}

func NewBoatRepository(db sqlx.ExtContext) repository.BoatRepository {
	return &boatRepository{db: db}
}

func (r *boatRepository) Create(ctx context.Context, b *domain.Boat) error {
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	query := `INSERT INTO boats (name, type, status, rental_price, image_url, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, b.Name, b.Type, b.Status, b.RentalPrice, b.ImageURL, b.Description, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	return mapError(err, "boat")
}

func (r *boatRepository) GetByID(ctx context.Context, id int32) (*domain.Boat, error) {
	var b domain.Boat
	if err := sqlx.GetContext(ctx, r.db, &b, `SELECT `+boatColumns+` FROM boats WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "boat")
	}
	return &b, nil
}

func (r *boatRepository) List(ctx context.Context, status domain.BoatStatus, offset, limit int32) ([]domain.Boat, error) {
	query := `SELECT ` + boatColumns + ` FROM boats`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
		argIdx++
	}
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limitOrDefault(limit), offset)

	boats := []domain.Boat{}
	if err := sqlx.SelectContext(ctx, r.db, &boats, query, args...); err != nil {
		return nil, mapError(err, "boats")
	}
	return boats, nil
}

func (r *boatRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Boat, error) {
	var b domain.Boat
	if err := sqlx.GetContext(ctx, r.db, &b, `SELECT `+boatColumns+` FROM boats WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, mapError(err, "boat")
	}
	return &b, nil
}

func (r *boatRepository) Update(ctx context.Context, b *domain.Boat) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE boats SET name=$1, type=$2, status=$3, rental_price=$4, image_url=$5, description=$6, updated_at=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, b.Name, b.Type, b.Status, b.RentalPrice, b.ImageURL, b.Description, b.UpdatedAt, b.ID)
	if err != nil {
		return mapError(err, "boat")
	}
	return expectAffected(res, "boat")
}

func (r *boatRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boats WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "boat")
	}
	return expectAffected(res, "boat")
}
