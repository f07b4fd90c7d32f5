package service

import (
	"context"
	"errors"
	"strings"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
)

// DefaultForumTags seed the forum when no tags are configured.
var DefaultForumTags = []string{"General", "Experience", "Technical", "Announcements", "Marketplace", "Other"}

type forumService struct {
	store repository.Store
}

func NewForumService(store repository.Store) ForumService {
	return &forumService{store: store}
}

func (s *forumService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.store.Tags().List(ctx)
}

func (s *forumService) CreateTag(ctx context.Context, p domain.Principal, name string) (*domain.Tag, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidArgument("name is required")
	}
	if len(name) > 50 {
		return nil, domain.InvalidArgument("name must be at most 50 characters")
	}
	tag := &domain.Tag{Name: name}
	if err := s.store.Tags().Create(ctx, tag); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Forum tag created", "tag_id", tag.ID, "name", tag.Name)
	return tag, nil
}

// EnsureTags creates the named tags that do not exist yet and reports how
// many it created.
func (s *forumService) EnsureTags(ctx context.Context, names []string) (int, error) {
	logger.EnterMethod("forumService.EnsureTags", "tags", len(names))
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		_, err := s.store.Tags().GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logger.ExitMethodWithError("forumService.EnsureTags", err, "name", name)
			return created, err
		}
		if err := s.store.Tags().Create(ctx, &domain.Tag{Name: name}); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			logger.ExitMethodWithError("forumService.EnsureTags", err, "name", name)
			return created, err
		}
		created++
	}
	logger.ExitMethod("forumService.EnsureTags", "created", created)
	return created, nil
}

func (s *forumService) ListPosts(ctx context.Context, tagID *int32, skip, limit int32) ([]domain.Post, error) {
	return s.store.Posts().List(ctx, tagID, skip, limit)
}

func (s *forumService) GetPost(ctx context.Context, id int32) (*domain.Post, error) {
	return s.store.Posts().GetByID(ctx, id)
}

func (s *forumService) CreatePost(ctx context.Context, p domain.Principal, post *domain.Post) error {
	post.Title = strings.TrimSpace(post.Title)
	if err := post.Validate(); err != nil {
		return err
	}
	if post.TagID != nil {
		if _, err := s.store.Tags().GetByID(ctx, *post.TagID); err != nil {
			return err
		}
	}
	post.UserID = p.UserID
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Post created", "post_id", post.ID, "tag_id", post.TagID)
	return nil
}

func (s *forumService) UpdatePost(ctx context.Context, p domain.Principal, id int32, in domain.PostUpdate) (post *domain.Post, err error) {
	logger.EnterMethod("forumService.UpdatePost", "postID", id, "userID", p.UserID)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		existing, err := repos.Posts().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !existing.CanManage(p) {
			return domain.Forbidden("only the author or an administrator may edit this post")
		}
		if in.Title != nil {
			existing.Title = strings.TrimSpace(*in.Title)
		}
		if in.Content != nil {
			existing.Content = *in.Content
		}
		switch {
		case in.ClearTag:
			existing.TagID = nil
		case in.TagID != nil:
			if _, err := repos.Tags().GetByID(ctx, *in.TagID); err != nil {
				return err
			}
			tagID := *in.TagID
			existing.TagID = &tagID
		}
		if err := existing.Validate(); err != nil {
			return err
		}
		if err := repos.Posts().Update(ctx, existing); err != nil {
			return err
		}
		post = existing
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("forumService.UpdatePost", err, "postID", id)
		return nil, err
	}

	logger.ExitMethod("forumService.UpdatePost", "postID", id)
	return post, nil
}

func (s *forumService) DeletePost(ctx context.Context, p domain.Principal, id int32) error {
	logger.EnterMethod("forumService.DeletePost", "postID", id, "userID", p.UserID)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		post, err := repos.Posts().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !post.CanManage(p) {
			return domain.Forbidden("only the author or an administrator may delete this post")
		}
		return repos.Posts().Delete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("forumService.DeletePost", err, "postID", id)
		return err
	}

	logger.ExitMethod("forumService.DeletePost", "postID", id)
	return nil
}

func (s *forumService) ListComments(ctx context.Context, postID int32, skip, limit int32) ([]domain.Comment, error) {
	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Comments().ListByPost(ctx, postID, skip, limit)
}

// CreateComment holds the post lock while inserting so a concurrent delete
// cannot leave the comment without its post.
func (s *forumService) CreateComment(ctx context.Context, p domain.Principal, postID int32, content string) (comment *domain.Comment, err error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.InvalidArgument("content is required")
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Posts().LockForUpdate(ctx, postID); err != nil {
			return err
		}
		c := &domain.Comment{PostID: postID, UserID: p.UserID, Content: content}
		if err := repos.Comments().Create(ctx, c); err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *forumService) DeleteComment(ctx context.Context, p domain.Principal, id int32) error {
	c, err := s.store.Comments().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !c.CanManage(p) {
		return domain.Forbidden("only the author or an administrator may delete this comment")
	}
	return s.store.Comments().Delete(ctx, id)
}
