package domain

import (
	"strings"
	"time"
)

type Tag struct {
	ID   int32  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Post struct {
	ID        int32     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	TagID     *int32    `json:"tag_id" db:"tag_id"`
	UserID    int32     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return InvalidArgument("title is required")
	}
	if len(p.Title) > 200 {
		return InvalidArgument("title must be at most 200 characters")
	}
	if strings.TrimSpace(p.Content) == "" {
		return InvalidArgument("content is required")
	}
	return nil
}

// CanManage reports whether pr may edit or delete the post.
func (p *Post) CanManage(pr Principal) bool {
	return pr.IsAdmin() || p.UserID == pr.UserID
}

// PostUpdate is a partial post edit. ClearTag removes the tag; TagID sets it.
type PostUpdate struct {
	Title    *string
	Content  *string
	TagID    *int32
	ClearTag bool
}

type Comment struct {
	ID        int32     `json:"id" db:"id"`
	PostID    int32     `json:"post_id" db:"post_id"`
	UserID    int32     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (c *Comment) CanManage(pr Principal) bool {
	return pr.IsAdmin() || c.UserID == pr.UserID
}
