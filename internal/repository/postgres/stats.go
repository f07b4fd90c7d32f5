package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

type statsRepository struct {
	db sqlx.ExtContext
}

func NewStatsRepository(db sqlx.ExtContext) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Counts(ctx context.Context) (*domain.ClubCounts, error) {
	var c domain.ClubCounts
	query := `SELECT
	            (SELECT COUNT(*) FROM users) AS total_users,
	            (SELECT COUNT(*) FROM boats) AS total_boats,
	            (SELECT COUNT(*) FROM activities) AS total_activities`
	if err := sqlx.GetContext(ctx, r.db, &c, query); err != nil {
		return nil, mapError(err, "club counts")
	}
	return &c, nil
}

func (r *statsRepository) IncomeSince(ctx context.Context, since time.Time) (domain.Money, error) {
	var total domain.Money
	query := `SELECT COALESCE(SUM(amount), 0) FROM finances WHERE type = 'INCOME' AND created_at >= $1`
	if err := sqlx.GetContext(ctx, r.db, &total, query, since); err != nil {
		return domain.ZeroMoney, mapError(err, "income")
	}
	return total, nil
}

func (r *statsRepository) ActiveRentersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	query := `SELECT COUNT(DISTINCT user_id) FROM boat_rentals WHERE rental_time >= $1`
	if err := sqlx.GetContext(ctx, r.db, &n, query, since); err != nil {
		return 0, mapError(err, "active renters")
	}
	return n, nil
}

func (r *statsRepository) BoatUsage(ctx context.Context) ([]domain.BoatUsage, error) {
	usage := []domain.BoatUsage{}
	query := `SELECT b.id AS boat_id, b.name AS boat_name, COUNT(r.id) AS rental_count
	          FROM boats b LEFT JOIN boat_rentals r ON r.boat_id = b.id
	          GROUP BY b.id, b.name ORDER BY b.id`
	if err := sqlx.SelectContext(ctx, r.db, &usage, query); err != nil {
		return nil, mapError(err, "boat usage")
	}
	return usage, nil
}

type monthRow struct {
	Month  string       `db:"month"`
	Amount domain.Money `db:"amount"`
	Count  int64        `db:"count"`
}

func (r *statsRepository) IncomeByMonth(ctx context.Context, since time.Time) (map[string]domain.Money, error) {
	rows := []monthRow{}
	query := `SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, SUM(amount) AS amount, COUNT(*) AS count
	          FROM finances WHERE type = 'INCOME' AND created_at >= $1 GROUP BY 1`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, since); err != nil {
		return nil, mapError(err, "monthly income")
	}
	months := make(map[string]domain.Money, len(rows))
	for _, row := range rows {
		months[row.Month] = row.Amount
	}
	return months, nil
}

func (r *statsRepository) SignupsByMonth(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows := []monthRow{}
	query := `SELECT to_char(signup_time AT TIME ZONE 'UTC', 'YYYY-MM') AS month, 0 AS amount, COUNT(*) AS count
	          FROM activity_signups WHERE signup_time >= $1 GROUP BY 1`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, since); err != nil {
		return nil, mapError(err, "monthly signups")
	}
	months := make(map[string]int64, len(rows))
	for _, row := range rows {
		months[row.Month] = row.Count
	}
	return months, nil
}
