package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const financeColumns = `id, user_id, type, amount, description, created_at`

type financeRepository struct {
	db sqlx.ExtContext
}

func NewFinanceRepository(db sqlx.ExtContext) repository.FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) Create(ctx context.Context, e *domain.FinanceEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO finances (user_id, type, amount, description, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, e.UserID, e.Type, e.Amount, e.Description, e.CreatedAt).Scan(&e.ID)
	return mapError(err, "finance entry")
}

func (r *financeRepository) List(ctx context.Context, f domain.FinanceFilter) ([]domain.FinanceEntry, error) {
	var where []string
	args := []interface{}{}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + financeColumns + ` FROM finances`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limitOrDefault(f.Limit), f.Offset)

	entries := []domain.FinanceEntry{}
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, args...); err != nil {
		return nil, mapError(err, "finance entries")
	}
	return entries, nil
}

func (r *financeRepository) Totals(ctx context.Context) (*domain.FinanceTotals, error) {
	query := `SELECT
	            COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0) AS total_income,
	            COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0) AS total_expense,
	            COUNT(*) AS transaction_count
	          FROM finances`
	var t domain.FinanceTotals
	if err := sqlx.GetContext(ctx, r.db, &t, query); err != nil {
		return nil, mapError(err, "finance totals")
	}
	return &t, nil
}

func (r *financeRepository) NetByUser(ctx context.Context) (map[int32]domain.Money, error) {
	query := `SELECT user_id,
	            COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0) AS net
	          FROM finances
	          WHERE user_id IS NOT NULL
	          GROUP BY user_id`
	var rows []struct {
		UserID int32        `db:"user_id"`
		Net    domain.Money `db:"net"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, mapError(err, "finance sums")
	}
	out := make(map[int32]domain.Money, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Net
	}
	return out, nil
}
