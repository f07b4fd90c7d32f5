package memory

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

type rentalRepository struct {
	h *handle
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	return r.h.write(func(st *state) (func(*state), error) {
		for _, existing := range st.rentals {
			if existing.BoatID == rt.BoatID && existing.Status == domain.RentalStatusActive {
				return nil, domain.Duplicate("rental already exists")
			}
		}
		rt.ID = st.next("boat_rentals")
		st.rentals[rt.ID] = *rt
		id := rt.ID
		return func(st *state) { delete(st.rentals, id) }, nil
	})
}

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	var (
		rt domain.Rental
		ok bool
	)
	r.h.read(func(st *state) { rt, ok = st.rentals[id] })
	if !ok {
		return nil, domain.NotFound("rental not found")
	}
	return &rt, nil
}

func (r *rentalRepository) LockForUpdate(ctx context.Context, id int32) (*domain.Rental, error) {
	if err := r.h.lock(ctx, rowKey("boat_rentals", id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *rentalRepository) Close(ctx context.Context, id int32, returnTime time.Time) error {
	return r.h.write(func(st *state) (func(*state), error) {
		prev, ok := st.rentals[id]
		if !ok || prev.Status != domain.RentalStatusActive {
			return nil, domain.NotFound("active rental not found")
		}
		next := prev
		next.ReturnTime = &returnTime
		next.Status = domain.RentalStatusReturned
		st.rentals[id] = next
		return func(st *state) { st.rentals[id] = prev }, nil
	})
}

func (r *rentalRepository) filter(keep func(domain.Rental) bool) []domain.Rental {
	var out []domain.Rental
	r.h.read(func(st *state) {
		for _, rt := range st.rentals {
			if keep(rt) {
				out = append(out, rt)
			}
		}
	})
	return out
}

func newestFirst(a, b domain.Rental) bool {
	if a.RentalTime.Equal(b.RentalTime) {
		return a.ID > b.ID
	}
	return a.RentalTime.After(b.RentalTime)
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int32, offset, limit int32) ([]domain.Rental, error) {
	rentals := r.filter(func(rt domain.Rental) bool { return rt.UserID == userID })
	return page(rentals, newestFirst, offset, limit), nil
}

func (r *rentalRepository) List(ctx context.Context, offset, limit int32) ([]domain.Rental, error) {
	rentals := r.filter(func(domain.Rental) bool { return true })
	return page(rentals, newestFirst, offset, limit), nil
}

func (r *rentalRepository) CountActiveByBoat(ctx context.Context, boatID int32) (int64, error) {
	return int64(len(r.filter(func(rt domain.Rental) bool {
		return rt.BoatID == boatID && rt.Status == domain.RentalStatusActive
	}))), nil
}

func (r *rentalRepository) CountActiveByUser(ctx context.Context, userID int32) (int64, error) {
	return int64(len(r.filter(func(rt domain.Rental) bool {
		return rt.UserID == userID && rt.Status == domain.RentalStatusActive
	}))), nil
}

func (r *rentalRepository) ListActiveBefore(ctx context.Context, before time.Time) ([]domain.Rental, error) {
	rentals := r.filter(func(rt domain.Rental) bool {
		return rt.Status == domain.RentalStatusActive && rt.RentalTime.Before(before)
	})
	oldestFirst := func(a, b domain.Rental) bool { return newestFirst(b, a) }
	return page(rentals, oldestFirst, 0, int32(len(rentals))+1), nil
}
