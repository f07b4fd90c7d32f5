package service

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Me(ctx context.Context, p domain.Principal) (*domain.User, error)
	EnsureAdmin(ctx context.Context, username, password, email string) (*domain.User, bool, error)
}

type UserService interface {
	GetUser(ctx context.Context, p domain.Principal, id int32) (*domain.User, error)
	ListUsers(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.User, error)
	UpdateUser(ctx context.Context, p domain.Principal, id int32, in UserUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, p domain.Principal, id int32) error
}

type BoatService interface {
	ListBoats(ctx context.Context, status domain.BoatStatus, skip, limit int32) ([]domain.Boat, error)
	GetBoat(ctx context.Context, id int32) (*domain.Boat, error)
	CreateBoat(ctx context.Context, p domain.Principal, boat *domain.Boat) error
	UpdateBoat(ctx context.Context, p domain.Principal, id int32, in domain.BoatUpdate) (*domain.Boat, error)
	DeleteBoat(ctx context.Context, p domain.Principal, id int32) error
}

type RentalService interface {
	Rent(ctx context.Context, p domain.Principal, boatID int32) (*domain.Rental, error)
	Return(ctx context.Context, p domain.Principal, rentalID int32) (*domain.Rental, error)
	ListMyRentals(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.Rental, error)
	ListAllRentals(ctx context.Context, p domain.Principal, skip, limit int32) ([]domain.Rental, error)
}

type ActivityService interface {
	ListActivities(ctx context.Context, skip, limit int32) ([]domain.Activity, error)
	GetActivity(ctx context.Context, id int32) (*domain.Activity, error)
	CreateActivity(ctx context.Context, p domain.Principal, activity *domain.Activity) error
	UpdateActivity(ctx context.Context, p domain.Principal, id int32, in domain.ActivityUpdate) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, p domain.Principal, id int32) error
	SignUp(ctx context.Context, p domain.Principal, activityID int32) (*domain.Signup, error)
	CheckIn(ctx context.Context, p domain.Principal, activityID int32) (*domain.Signup, error)
	CancelSignUp(ctx context.Context, p domain.Principal, activityID int32) error
	ListSignups(ctx context.Context, p domain.Principal, activityID int32) ([]domain.Signup, error)
	ListMySignups(ctx context.Context, p domain.Principal) ([]domain.Signup, error)
}

type LedgerService interface {
	AdjustBalance(ctx context.Context, userID int32, delta domain.Money, description string) (*domain.User, error)
	AdminAdjustBalance(ctx context.Context, p domain.Principal, userID int32, delta domain.Money, description string) (*domain.User, error)
	Deposit(ctx context.Context, p domain.Principal, userID int32, amount domain.Money, description string) (*domain.User, error)
	CreateEntry(ctx context.Context, p domain.Principal, in NewEntry) (*domain.FinanceEntry, error)
	ListEntries(ctx context.Context, p domain.Principal, typ domain.FinanceType, skip, limit int32) ([]domain.FinanceEntry, error)
	Balance(ctx context.Context, p domain.Principal) (*domain.User, error)
	Report(ctx context.Context, p domain.Principal) (*domain.FinanceReport, error)
}

type NoticeService interface {
	ListNotices(ctx context.Context, skip, limit int32) ([]domain.Notice, error)
	GetNotice(ctx context.Context, id int32) (*domain.Notice, error)
	CreateNotice(ctx context.Context, p domain.Principal, notice *domain.Notice) error
	UpdateNotice(ctx context.Context, p domain.Principal, id int32, in domain.NoticeUpdate) (*domain.Notice, error)
	DeleteNotice(ctx context.Context, p domain.Principal, id int32) error
}

type ForumService interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, p domain.Principal, name string) (*domain.Tag, error)
	EnsureTags(ctx context.Context, names []string) (int, error)
	ListPosts(ctx context.Context, tagID *int32, skip, limit int32) ([]domain.Post, error)
	GetPost(ctx context.Context, id int32) (*domain.Post, error)
	CreatePost(ctx context.Context, p domain.Principal, post *domain.Post) error
	UpdatePost(ctx context.Context, p domain.Principal, id int32, in domain.PostUpdate) (*domain.Post, error)
	DeletePost(ctx context.Context, p domain.Principal, id int32) error
	ListComments(ctx context.Context, postID int32, skip, limit int32) ([]domain.Comment, error)
	CreateComment(ctx context.Context, p domain.Principal, postID int32, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, p domain.Principal, id int32) error
}

type StatsService interface {
	ClubStats(ctx context.Context, p domain.Principal) (*domain.ClubStats, error)
}

type EmailService interface {
	SendRentalConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error
	SendReturnConfirmation(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error
	SendRentalReminder(ctx context.Context, user *domain.User, boat *domain.Boat, rental *domain.Rental) error
	SendSignupConfirmation(ctx context.Context, user *domain.User, activity *domain.Activity) error
}

// observe logs the outcome of a core operation and records it in metrics.
// Expected rejections log at warn, store failures at error.
func observe(ctx context.Context, m *metrics.Metrics, op string, started time.Time, err error, args ...any) {
	m.ObserveOperation(op, err, started)
	if err == nil {
		logger.InfoContext(ctx, op+" succeeded", args...)
		return
	}
	args = append(args, "error", err)
	if domain.KindOf(err) == domain.KindTransactionFailure {
		logger.ErrorContext(ctx, op+" failed", args...)
		return
	}
	logger.WarnContext(ctx, op+" rejected", args...)
}

func requireAdmin(p domain.Principal) error {
	if !p.IsAdmin() {
		return domain.Forbidden("administrator role required")
	}
	return nil
}
