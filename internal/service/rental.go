package service

import (
	"context"
	"fmt"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository"
)

type rentalService struct {
	store         repository.Store
	emailSvc      EmailService
	metrics       *metrics.Metrics
	recordCharges bool
	now           func() time.Time
}

// NewRentalService builds the rent/return workflow. When recordCharges is
// set every paid rental also appends an EXPENSE ledger line for the renter.
func NewRentalService(store repository.Store, emailSvc EmailService, m *metrics.Metrics, recordCharges bool) RentalService {
	return &rentalService{
		store:         store,
		emailSvc:      emailSvc,
		metrics:       m,
		recordCharges: recordCharges,
		now:           time.Now,
	}
}

// Rent locks the boat, then the renter, so two members racing for the same
// boat serialize on the boat row and exactly one of them sees AVAILABLE.
func (s *rentalService) Rent(ctx context.Context, p domain.Principal, boatID int32) (rental *domain.Rental, err error) {
	logger.EnterMethod("rentalService.Rent", "boatID", boatID, "userID", p.UserID)
	defer func(started time.Time) {
		observe(ctx, s.metrics, "rent_boat", started, err, "boat_id", boatID, "user_id", p.UserID)
	}(time.Now())

	var (
		boat *domain.Boat
		user *domain.User
	)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := repos.Boats().LockForUpdate(ctx, boatID)
		if err != nil {
			return err
		}
		if b.Status != domain.BoatStatusAvailable {
			return domain.InvalidState("boat is not available")
		}

		u, err := repos.Users().LockForUpdate(ctx, p.UserID)
		if err != nil {
			return err
		}
		if u.Balance.LessThan(b.RentalPrice) {
			return domain.InsufficientFunds("balance %s is less than rental price %s", u.Balance, b.RentalPrice)
		}

		r := &domain.Rental{
			BoatID:     b.ID,
			UserID:     u.ID,
			Price:      b.RentalPrice,
			RentalTime: s.now().UTC(),
			Status:     domain.RentalStatusActive,
		}
		if err := repos.Rentals().Create(ctx, r); err != nil {
			return err
		}

		b.Status = domain.BoatStatusRented
		if err := repos.Boats().Update(ctx, b); err != nil {
			return err
		}

		if b.RentalPrice.IsPositive() {
			desc := fmt.Sprintf("Boat rental: %s", b.Name)
			if _, err := postDelta(ctx, repos, u, b.RentalPrice.Neg(), desc, s.recordCharges); err != nil {
				return err
			}
		}

		rental, boat, user = r, b, u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendRentalConfirmation(ctx, user, boat, rental); err != nil {
		logger.WarnContext(ctx, "Failed to send rental confirmation", "rental_id", rental.ID, "error", err)
	}
	return rental, nil
}

// Return closes an active rental and frees the boat. The charge taken at
// rent time is final; returning moves no money.
func (s *rentalService) Return(ctx context.Context, p domain.Principal, rentalID int32) (rental *domain.Rental, err error) {
	logger.EnterMethod("rentalService.Return", "rentalID", rentalID, "userID", p.UserID)
	defer func(started time.Time) {
		observe(ctx, s.metrics, "return_boat", started, err, "rental_id", rentalID, "user_id", p.UserID)
	}(time.Now())

	var boat *domain.Boat
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := repos.Rentals().LockForUpdate(ctx, rentalID)
		if err != nil {
			return err
		}
		if r.UserID != p.UserID && !p.IsAdmin() {
			return domain.Forbidden("rental belongs to another member")
		}
		if !r.IsActive() {
			return domain.NotFound("active rental not found")
		}

		b, err := repos.Boats().LockForUpdate(ctx, r.BoatID)
		if err != nil {
			return err
		}

		returned := s.now().UTC()
		if err := repos.Rentals().Close(ctx, r.ID, returned); err != nil {
			return err
		}
		r.ReturnTime = &returned
		r.Status = domain.RentalStatusReturned

		b.Status = domain.BoatStatusAvailable
		if err := repos.Boats().Update(ctx, b); err != nil {
			return err
		}

		rental, boat = r, b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if user, err := s.store.Users().GetByID(ctx, rental.UserID); err == nil {
		if err := s.emailSvc.SendReturnConfirmation(ctx, user, boat, rental); err != nil {
			logger.WarnContext(ctx, "Failed to send return confirmation", "rental_id", rental.ID, "error", err)
		}
	}
	return rental, nil
}

func (s *rentalService) ListMyRentals(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.Rental, error) {
	return s.store.Rentals().ListByUser(ctx, p.UserID, skip, limit)
}

func (s *rentalService) ListAllRentals(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.Rental, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.store.Rentals().List(ctx, skip, limit)
}
