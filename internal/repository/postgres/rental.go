package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const rentalColumns = `id, boat_id, user_id, price, rental_time, return_time, status`

type rentalRepository struct {
	db sqlx.ExtContext
}

func NewRentalRepository(db sqlx.ExtContext) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO boat_rentals (boat_id, user_id, price, rental_time, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, rt.BoatID, rt.UserID, rt.Price, rt.RentalTime, rt.Status).Scan(&rt.ID)
	return mapError(err, "rental")
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	var rt domain.Rental
	if err := sqlx.GetContext(ctx, r.db, &rt, `SELECT `+rentalColumns+` FROM boat_rentals WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "rental")
	}
	return &rt, nil
}

func (r *rentalRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	var rt domain.Rental
	if err := sqlx.GetContext(ctx, r.db, &rt, `SELECT `+rentalColumns+` FROM boat_rentals WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, mapError(err, "rental")
	}
	return &rt, nil
}

// Close marks an active rental returned. A rental that is already returned
// is left untouched and reported as not found.
func (r *rentalRepository) Close(ctx context.Context, id int32, returnTime time.Time) error {
	query := `UPDATE boat_rentals SET return_time=$1, status=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, returnTime, domain.RentalStatusReturned, id, domain.RentalStatusActive)
	if err != nil {
		return mapError(err, "rental")
	}
	return expectAffected(res, "active rental")
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, offset, limit int32) ([]domain.Rental, error) {
	rentals := []domain.Rental{}
	query := `SELECT ` + rentalColumns + ` FROM boat_rentals WHERE user_id = $1 ORDER BY rental_time DESC LIMIT $2 OFFSET $3`
	if err := sqlx.SelectContext(ctx, r.db, &rentals, query, userID, limitOrDefault(limit), offset); err != nil {
		return nil, mapError(err, "rentals")
	}
	return rentals, nil
}

func (r *rentalRepository) List(ctx context.Context, offset, limit int32) ([]domain.Rental, error) {
	rentals := []domain.Rental{}
	query := `SELECT ` + rentalColumns + ` FROM boat_rentals ORDER BY rental_time DESC LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &rentals, query, limitOrDefault(limit), offset); err != nil {
		return nil, mapError(err, "rentals")
	}
	return rentals, nil
}

func (r *rentalRepository) CountActiveByBoat(ctx context.Context, boatID int32) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM boat_rentals WHERE boat_id = $1 AND status = $2`, boatID, domain.RentalStatusActive)
	return n, mapError(err, "rentals")
}

func (r *rentalRepository) CountActiveByUser(ctx context.Context, userID int32) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM boat_rentals WHERE user_id = $1 AND status = $2`, userID, domain.RentalStatusActive)
	return n, mapError(err, "rentals")
}

func (r *rentalRepository) ListActiveBefore(ctx context.Context, before time.Time) ([]domain.Rental, error) {
	rentals := []domain.Rental{}
	query := `SELECT ` + rentalColumns + ` FROM boat_rentals WHERE status = $1 AND rental_time < $2 ORDER BY rental_time`
	if err := sqlx.SelectContext(ctx, r.db, &rentals, query, domain.RentalStatusActive, before); err != nil {
		return nil, mapError(err, "rentals")
	}
	return rentals, nil
}
