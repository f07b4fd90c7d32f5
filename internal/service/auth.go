package service

import (
	"context"
	"errors"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
	"sailing-club-backend/internal/security"
)

const minPasswordLength = 6

type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

var errInvalidCredentials = domain.Unauthenticated("invalid username or password")

type authService struct {
	store  repository.Store
	tokens security.TokenManager
}

func NewAuthService(store repository.Store, tokens security.TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Username == "" {
		return nil, domain.InvalidArgument("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.InvalidArgument("password must be at least %d characters", minPasswordLength)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         domain.UserRoleMember,
		Balance:      domain.ZeroMoney,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Duplicate("username already registered")
		}
		return nil, err
	}
	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator when no user holds the
// username. An existing administrator is left untouched; an existing member
// with that name is an error and is never promoted.
func (s *authService) EnsureAdmin(ctx context.Context, username, password, email string) (user *domain.User, created bool, err error) {
	logger.EnterMethod("authService.EnsureAdmin", "username", username)
	defer func() {
		if err != nil {
			logger.ExitMethodWithError("authService.EnsureAdmin", err, "username", username)
			return
		}
		logger.ExitMethod("authService.EnsureAdmin", "username", username, "created", created)
	}()

	if username == "" {
		return nil, false, domain.InvalidArgument("admin username is required")
	}
	if len(password) < minPasswordLength {
		return nil, false, domain.InvalidArgument("admin password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.store.Users().GetByUsername(ctx, username)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			return nil, false, domain.InvalidState("user %q exists and is not an administrator", username)
		}
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	user = &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         domain.UserRoleAdmin,
		Balance:      domain.ZeroMoney,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Another instance won the race.
			existing, gerr := s.store.Users().GetByUsername(ctx, username)
			if gerr != nil {
				return nil, false, gerr
			}
			if !existing.IsAdmin() {
				return nil, false, domain.InvalidState("user %q exists and is not an administrator", username)
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	logger.InfoContext(ctx, "Bootstrap administrator created", "user_id", user.ID, "username", user.Username)
	return user, true, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.WarnContext(ctx, "Login rejected", "username", username)
		return nil, errInvalidCredentials
	}
	return s.issue(user, true)
}

// Refresh re-reads the user so role changes and deletions take effect on
// the next access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return nil, domain.Unauthenticated("%v", err)
	}
	if claims.Type != security.TokenTypeRefresh {
		return nil, domain.Unauthenticated("%v", security.ErrWrongTokenType)
	}
	user, err := s.store.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthenticated("user no longer exists")
		}
		return nil, err
	}
	return s.issue(user, false)
}

func (s *authService) Me(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.store.Users().GetByID(ctx, p.UserID)
}

func (s *authService) issue(user *domain.User, withRefresh bool) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	pair := &TokenPair{AccessToken: access, TokenType: "bearer"}
	if withRefresh {
		if pair.RefreshToken, err = s.tokens.GenerateRefreshToken(user); err != nil {
			return nil, err
		}
	}
	return pair, nil
}
