package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const userColumns = `id, username, password_hash, email, phone, role, balance, created_at, updated_at`

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	query := `INSERT INTO users (username, password_hash, email, phone, role, balance, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, u.Username, u.PasswordHash, u.Email, u.Phone, u.Role, u.Balance, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	return mapError(err, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, mapError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int32) ([]domain.User, error) {
	users := []domain.User{}
	err := sqlx.SelectContext(ctx, r.db, &users, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limitOrDefault(limit), offset)
	if err != nil {
		return nil, mapError(err, "users")
	}
	return users, nil
}

func (r *userRepository) LockForUpdate(ctx context.Context, id int32) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, mapError(err, "user")
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	query := `UPDATE users SET email=$1, phone=$2, role=$3, password_hash=$4, updated_at=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, u.Email, u.Phone, u.Role, u.PasswordHash, u.UpdatedAt, u.ID)
	if err != nil {
		return mapError(err, "user")
	}
	return expectAffected(res, "user")
}

func (r *userRepository) UpdateBalance(ctx context.Context, id int32, balance domain.Money) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET balance=$1, updated_at=$2 WHERE id=$3`, balance, time.Now().UTC(), id)
	if err != nil {
		return mapError(err, "user")
	}
	return expectAffected(res, "user")
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "user")
	}
	return expectAffected(res, "user")
}
