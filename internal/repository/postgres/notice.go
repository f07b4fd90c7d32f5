package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const noticeColumns = `id, title, content, author_id, created_at, updated_at`

type noticeRepository struct {
	db sqlx.ExtContext
}

func NewNoticeRepository(db sqlx.ExtContext) repository.NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	now := time.Now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now
	query := `INSERT INTO notices (title, content, author_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, n.Title, n.Content, n.AuthorID, n.CreatedAt, n.UpdatedAt).Scan(&n.ID)
	return mapError(err, "notice")
}

func (r *noticeRepository) GetByID(ctx context.Context, id int32) (*domain.Notice, error) {
	var n domain.Notice
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT `+noticeColumns+` FROM notices WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "notice")
	}
	return &n, nil
}

func (r *noticeRepository) List(ctx context.Context, offset, limit int32) ([]domain.Notice, error) {
	notices := []domain.Notice{}
	query := `SELECT ` + noticeColumns + ` FROM notices ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := sqlx.SelectContext(ctx, r.db, &notices, query, limitOrDefault(limit), offset); err != nil {
		return nil, mapError(err, "notices")
	}
	return notices, nil
}

func (r *noticeRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Notice, error) {
	var n domain.Notice
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT `+noticeColumns+` FROM notices WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, mapError(err, "notice")
	}
	return &n, nil
}

func (r *noticeRepository) Update(ctx context.Context, n *domain.Notice) error {
	n.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE notices SET title=$1, content=$2, updated_at=$3 WHERE id=$4`,
		n.Title, n.Content, n.UpdatedAt, n.ID)
	if err != nil {
		return mapError(err, "notice")
	}
	return expectAffected(res, "notice")
}

func (r *noticeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "notice")
	}
	return expectAffected(res, "notice")
}
