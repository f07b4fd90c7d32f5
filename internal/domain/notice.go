package domain

import (
	"strings"
	"time"
)

// Notice is a club announcement. Only administrators publish notices.
type Notice struct {
	ID        int32     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	AuthorID  *int32    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (n *Notice) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return InvalidArgument("title is required")
	}
	if len(n.Title) > 100 {
		return InvalidArgument("title must be at most 100 characters")
	}
	if strings.TrimSpace(n.Content) == "" {
		return InvalidArgument("content is required")
	}
	return nil
}

type NoticeUpdate struct {
	Title   *string
	Content *string
}
