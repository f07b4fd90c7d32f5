package service

import (
	"context"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
)

type boatService struct {
	store repository.Store
}

func NewBoatService(store repository.Store) BoatService {
	return &boatService{store: store}
}

func (s *boatService) ListBoats(ctx context.Context, status domain.BoatStatus, skip, limit int32) ([]domain.Boat, error) {
	if status != "" && !status.Valid() {
		return nil, domain.InvalidArgument("unknown boat status %q", status)
	}
	return s.store.Boats().List(ctx, status, skip, limit)
}

func (s *boatService) GetBoat(ctx context.Context, id int32) (*domain.Boat, error) {
	return s.store.Boats().GetByID(ctx, id)
}

func (s *boatService) CreateBoat(ctx context.Context, p domain.Principal, boat *domain.Boat) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if boat.Name == "" {
		return domain.InvalidArgument("name is required")
	}
	if boat.RentalPrice.IsNegative() {
		return domain.InvalidAmount("rental_price must not be negative")
	}
	if !boat.RentalPrice.InRange() {
		return domain.InvalidAmount("rental_price must not exceed %s", domain.MaxMoney)
	}
	boat.RentalPrice = domain.NewMoney(boat.RentalPrice.Decimal)
	boat.Status = domain.BoatStatusAvailable
	if err := s.store.Boats().Create(ctx, boat); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Boat created", "boat_id", boat.ID, "name", boat.Name)
	return nil
}

func (s *boatService) UpdateBoat(ctx context.Context, p domain.Principal, id int32, in domain.BoatUpdate) (boat *domain.Boat, err error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	logger.EnterMethod("boatService.UpdateBoat", "boatID", id)
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		b, err := repos.Boats().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if in.Status != nil && *in.Status != b.Status {
			if !in.Status.Valid() {
				return domain.InvalidArgument("unknown boat status %q", *in.Status)
			}
			if *in.Status == domain.BoatStatusRented {
				return domain.InvalidState("boats are marked rented only by renting them")
			}
			if b.Status == domain.BoatStatusRented {
				return domain.InvalidState("boat is rented; return it first")
			}
			b.Status = *in.Status
		}
		if in.Name != nil {
			if *in.Name == "" {
				return domain.InvalidArgument("name is required")
			}
			b.Name = *in.Name
		}
		if in.Type != nil {
			b.Type = *in.Type
		}
		if in.Description != nil {
			b.Description = *in.Description
		}
		if in.ImageURL != nil {
			b.ImageURL = *in.ImageURL
		}
		if in.RentalPrice != nil {
			if in.RentalPrice.IsNegative() {
				return domain.InvalidAmount("rental_price must not be negative")
			}
			if !in.RentalPrice.InRange() {
				return domain.InvalidAmount("rental_price must not exceed %s", domain.MaxMoney)
			}
			b.RentalPrice = domain.NewMoney(in.RentalPrice.Decimal)
		}

		if err := repos.Boats().Update(ctx, b); err != nil {
			return err
		}
		boat = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("boatService.UpdateBoat", err, "boatID", id)
		return nil, err
	}

	logger.ExitMethod("boatService.UpdateBoat", "boatID", id, "status", boat.Status)
	return boat, nil
}

func (s *boatService) DeleteBoat(ctx context.Context, p domain.Principal, id int32) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	logger.EnterMethod("boatService.DeleteBoat", "boatID", id)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Boats().LockForUpdate(ctx, id); err != nil {
			return err
		}
		active, err := repos.Rentals().CountActiveByBoat(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.InvalidState("boat has an active rental")
		}
		return repos.Boats().Delete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("boatService.DeleteBoat", err, "boatID", id)
		return err
	}

	logger.ExitMethod("boatService.DeleteBoat", "boatID", id)
	return nil
}
