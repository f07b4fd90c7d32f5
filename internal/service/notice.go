package service

import (
	"context"
	"strings"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
)

type noticeService struct {
	store repository.Store
}

func NewNoticeService(store repository.Store) NoticeService {
	return &noticeService{store: store}
}

func (s *noticeService) ListNotices(ctx context.Context, skip, limit int32) ([]domain.Notice, error) {
	return s.store.Notices().List(ctx, skip, limit)
}

func (s *noticeService) GetNotice(ctx context.Context, id int32) (*domain.Notice, error) {
	return s.store.Notices().GetByID(ctx, id)
}

func (s *noticeService) CreateNotice(ctx context.Context, p domain.Principal, n *domain.Notice) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	n.Title = strings.TrimSpace(n.Title)
	if err := n.Validate(); err != nil {
		return err
	}
	author := p.UserID
	n.AuthorID = &author
	if err := s.store.Notices().Create(ctx, n); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Notice published", "notice_id", n.ID, "title", n.Title)
	return nil
}

func (s *noticeService) UpdateNotice(ctx context.Context, p domain.Principal, id int32, in domain.NoticeUpdate) (notice *domain.Notice, err error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	logger.EnterMethod("noticeService.UpdateNotice", "noticeID", id)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		n, err := repos.Notices().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			n.Title = strings.TrimSpace(*in.Title)
		}
		if in.Content != nil {
			n.Content = *in.Content
		}
		if err := n.Validate(); err != nil {
			return err
		}
		if err := repos.Notices().Update(ctx, n); err != nil {
			return err
		}
		notice = n
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("noticeService.UpdateNotice", err, "noticeID", id)
		return nil, err
	}

	logger.ExitMethod("noticeService.UpdateNotice", "noticeID", id)
	return notice, nil
}

func (s *noticeService) DeleteNotice(ctx context.Context, p domain.Principal, id int32) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if err := s.store.Notices().Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Notice deleted", "notice_id", id)
	return nil
}
