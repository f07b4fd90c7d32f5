package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type boatRepository struct {
	h *handle
}

func (r *boatRepository) Create(ctx context.Context, b *domain.Boat) error {
	return r.h.write(func(st *state) (func(*state), error) {
		now := time.Now().UTC()
		b.ID = st.next("boats")
		b.CreatedAt, b.UpdatedAt = now, now
		st.boats[b.ID] = *b
		id := b.ID
		return func(st *state) { delete(st.boats, id) }, nil
	})
}

func (r *boatRepository) GetByID(ctx context.Context, id int32) (*domain.Boat, error) {
	var (
		b  domain.Boat
		ok bool
	)
	r.h.read(func(st *state) { b, ok = st.boats[id] })
	if !ok {
		return nil, domain.NotFound("boat not found")
	}
	return &b, nil
}

func (r *boatRepository) List(ctx context.Context, status domain.BoatStatus, offset, limit int32) ([]domain.Boat, error) {
	var boats []domain.Boat
	r.h.read(func(st *state) {
		for _, b := range st.boats {
			if status == "" || b.Status == status {
				boats = append(boats, b)
			}
		}
	})
	return page(boats, func(a, b domain.Boat) bool { return a.ID < b.ID }, offset, limit), nil
}

func (r *boatRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Boat, error) {
	if err := r.h.lock(ctx, rowKey("boats", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *boatRepository) Update(ctx context.Context, b *domain.Boat) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.boats[b.ID]
		if !ok {
			return nil, domain.NotFound("boat not found")
		}
		b.CreatedAt = prev.CreatedAt
		b.UpdatedAt = time.Now().UTC()
		st.boats[b.ID] = *b
		return func(st *state) { st.boats[prev.ID] = prev }, nil
	})
}

func (r *boatRepository) Delete(ctx context.Context, id int32) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.boats[id]
		if !ok {
			return nil, domain.NotFound("boat not found")
		}
		delete(st.boats, id)
		var removed []domain.Rental
		for rid, rt := range st.rentals {
			if rt.BoatID == id {
				removed = append(removed, rt)
				delete(st.rentals, rid)
			}
		}
		return func(st *state) {
			st.boats[prev.ID] = prev
			for _, rt := range removed {
				st.rentals[rt.ID] = rt
			}
		}, nil
	})
}
