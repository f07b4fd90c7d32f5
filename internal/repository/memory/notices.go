package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type noticeRepository struct {
	h *handle
}

func (r *noticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	return r.h.write(func(st *state) (func(*state), error) {
		if n.AuthorID != nil {
			if _, ok := st.users[*n.AuthorID]; !ok {
				return nil, domain.NotFound("author not found")
			}
		}
		now := time.Now().UTC()
		n.ID = st.next("notices")
		n.CreatedAt, n.UpdatedAt = now, now
		st.notices[n.ID] = *n
		id := n.ID
		return func(st *state) { delete(st.notices, id) }, nil
	})
}

func (r *noticeRepository) GetByID(ctx context.Context, id int32) (*domain.Notice, error) {
	var (
		n  domain.Notice
		ok bool
	)
	r.h.read(func(st *state) { n, ok = st.notices[id] })
	if !ok {
		return nil, domain.NotFound("notice not found")
	}
	return &n, nil
}

func (r *noticeRepository) List(ctx context.Context, offset, limit int32) ([]domain.Notice, error) {
	var notices []domain.Notice
	r.h.read(func(st *state) {
		for _, n := range st.notices {
			notices = append(notices, n)
		}
	})
	newest := func(a, b domain.Notice) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
	return page(notices, newest, offset, limit), nil
}

func (r *noticeRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Notice, error) {
	if err := r.h.lock(ctx, rowKey("notices", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *noticeRepository) Update(ctx context.Context, n *domain.Notice) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.notices[n.ID]
		if !ok {
			return nil, domain.NotFound("notice not found")
		}
		next := prev
		next.Title, next.Content = n.Title, n.Content
		next.UpdatedAt = time.Now().UTC()
		*n = next
		st.notices[n.ID] = next
		return func(st *state) { st.notices[prev.ID] = prev }, nil
	})
}

func (r *noticeRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.notices[id]
		if !ok {
			return nil, domain.NotFound("notice not found")
		}
		delete(st.notices, id)
		return func(st *state) { st.notices[prev.ID] = prev }, nil
	})
}
