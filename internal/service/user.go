package service

import (
	"context"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
	"sailing-club-backend/internal/security"
)

// UserUpdate is a partial profile change. Role is honoured for
// administrators only.
type UserUpdate struct {
	Email    *string
	Phone    *string
	Password *string
	Role     *domain.UserRole
}

type userService struct {
	store repository.Store
}

func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) GetUser(ctx context.Context, p domain.Principal, id int32) (*domain.User, error) {
	if id != p.UserID && !p.IsAdmin() {
		return nil, domain.Forbidden("cannot view another member's profile")
	}
	return s.store.Users().GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.store.Users().List(ctx, skip, limit)
}

func (s *userService) UpdateUser(ctx context.Context, p domain.Principal, id int32, in UserUpdate) (user *domain.User, err error) {
	if id != p.UserID && !p.IsAdmin() {
		return nil, domain.Forbidden("cannot edit another member's profile")
	}
	if in.Role != nil {
		if !p.IsAdmin() {
			return nil, domain.Forbidden("only administrators may change roles")
		}
		if !in.Role.Valid() {
			return nil, domain.InvalidArgument("unknown role %q", *in.Role)
		}
	}

	var hash string
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, domain.InvalidArgument("password must be at least %d characters", minPasswordLength)
		}
		if hash, err = security.HashPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Users().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if err := repos.Users().Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account with everything that cascades from it.
// The user's activities and posts are locked before the user row so the
// cascade follows the store-wide lock order.
func (s *userService) DeleteUser(ctx context.Context, p domain.Principal, id int32) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if id == p.UserID {
		return domain.InvalidState("administrators cannot delete their own account")
	}

	logger.EnterMethod("userService.DeleteUser", "userID", id)
	var activities, posts []int32
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		if activities, err = repos.Activities().LockByCreator(ctx, id); err != nil {
			return err
		}
		if posts, err = repos.Posts().LockByAuthor(ctx, id); err != nil {
			return err
		}
		if _, err := repos.Users().LockForUpdate(ctx, id); err != nil {
			return err
		}
		active, err := repos.Rentals().CountActiveByUser(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return domain.InvalidState("user has an active rental")
		}
		return repos.Users().Delete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("userService.DeleteUser", err, "userID", id)
		return err
	}

	logger.ExitMethod("userService.DeleteUser", "userID", id, "activities", len(activities), "posts", len(posts))
	return nil
}
