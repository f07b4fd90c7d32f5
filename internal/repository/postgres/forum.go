package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/repository"
)

const (
	postColumns    = `id, title, content, tag_id, user_id, created_at, updated_at`
	commentColumns = `id, post_id, user_id, content, created_at`
)

type tagRepository struct {
	db sqlx.ExtContext
}

func NewTagRepository(db sqlx.ExtContext) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, t *domain.Tag) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO forum_tags (name) VALUES ($1) RETURNING id`, t.Name).Scan(&t.ID)
	return mapError(err, "tag")
}

func (r *tagRepository) GetByID(ctx context.Context, id int32) (*domain.Tag, error) {
	var t domain.Tag
	if err := sqlx.GetContext(ctx, r.db, &t, `SELECT id, name FROM forum_tags WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "tag")
	}
	return &t, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var t domain.Tag
	if err := sqlx.GetContext(ctx, r.db, &t, `SELECT id, name FROM forum_tags WHERE name = $1`, name); err != nil {
		return nil, mapError(err, "tag")
	}
	return &t, nil
}

func (r *tagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	tags := []domain.Tag{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, `SELECT id, name FROM forum_tags ORDER BY id`); err != nil {
		return nil, mapError(err, "tags")
	}
	return tags, nil
}

type postRepository struct {
	db sqlx.ExtContext
}

func NewPostRepository(db sqlx.ExtContext) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	query := `INSERT INTO posts (title, content, tag_id, user_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, p.Title, p.Content, p.TagID, p.UserID, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return mapError(err, "post")
}

func (r *postRepository) GetByID(ctx context.Context, id int32) (*domain.Post, error) {
	var p domain.Post
	if err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "post")
	}
	return &p, nil
}

func (r *postRepository) List(ctx context.Context, tagID *int32, offset, limit int32) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	args := []interface{}{}
	if tagID != nil {
		args = append(args, *tagID)
		query += ` WHERE tag_id = $1`
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limitOrDefault(limit), offset)

	posts := []domain.Post{}
	if err := sqlx.SelectContext(ctx, r.db, &posts, query, args...); err != nil {
		return nil, mapError(err, "posts")
	}
	return posts, nil
}

func (r *postRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Post, error) {
	var p domain.Post
	if err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+postColumns+` FROM posts WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, mapError(err, "post")
	}
	return &p, nil
}

func (r *postRepository) LockByAuthor(ctx context.Context, userID int32) ([]int32, error) {
	ids := []int32{}
	query := `SELECT id FROM posts WHERE user_id = $1 ORDER BY id FOR UPDATE`
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, userID); err != nil {
		return nil, mapError(err, "posts")
	}
	return ids, nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE posts SET title=$1, content=$2, tag_id=$3, updated_at=$4 WHERE id=$5`,
		p.Title, p.Content, p.TagID, p.UpdatedAt, p.ID)
	if err != nil {
		return mapError(err, "post")
	}
	return expectAffected(res, "post")
}

func (r *postRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "post")
	}
	return expectAffected(res, "post")
}

type commentRepository struct {
	db sqlx.ExtContext
}

func NewCommentRepository(db sqlx.ExtContext) repository.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	c.CreatedAt = time.Now().UTC()
	query := `INSERT INTO comments (post_id, user_id, content, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, c.PostID, c.UserID, c.Content, c.CreatedAt).Scan(&c.ID)
	return mapError(err, "comment")
}

func (r *commentRepository) GetByID(ctx context.Context, id int32) (*domain.Comment, error) {
	var c domain.Comment
	if err := sqlx.GetContext(ctx, r.db, &c, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id); err != nil {
		return nil, mapError(err, "comment")
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int32, offset, limit int32) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
	if err := sqlx.SelectContext(ctx, r.db, &comments, query, postID, limitOrDefault(limit), offset); err != nil {
		return nil, mapError(err, "comments")
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "comment")
	}
	return expectAffected(res, "comment")
}
