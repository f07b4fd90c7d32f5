package repository

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
)

// LockForUpdate methods take an exclusive row lock held until the enclosing
// transaction commits or rolls back. Called outside WithinTx they are plain
// reads.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, offset, limit int32) ([]domain.User, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateBalance(ctx context.Context, id int32, balance domain.Money) error
	Delete(ctx context.Context, id int32) error
}

type BoatRepository interface {
	Create(ctx context.Context, boat *domain.Boat) error
	GetByID(ctx context.Context, id int32) (*domain.Boat, error)
	List(ctx context.Context, status domain.BoatStatus, offset, limit int32) ([]domain.Boat, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.Boat, error)
	Update(ctx context.Context, boat *domain.Boat) error
	Delete(ctx context.Context, id int32) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.Rental, error)
	Close(ctx context.Context, id int32, returnTime time.Time) error
	ListByUser(ctx context.Context, userID int32, offset, limit int32) ([]domain.Rental, error)
	List(ctx context.Context, offset, limit int32) ([]domain.Rental, error)
	CountActiveByBoat(ctx context.Context, boatID int32) (int64, error)
	CountActiveByUser(ctx context.Context, userID int32) (int64, error)
	ListActiveBefore(ctx context.Context, before time.Time) ([]domain.Rental, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id int32) (*domain.Activity, error)
	List(ctx context.Context, offset, limit int32) ([]domain.Activity, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.Activity, error)
	// LockByCreator locks every activity created by the user in id order
	// and returns their ids.
	LockByCreator(ctx context.Context, creatorID int32) ([]int32, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id int32) error
}

type SignupRepository interface {
	Create(ctx context.Context, signup *domain.Signup) error
	Get(ctx context.Context, activityID, userID int32) (*domain.Signup, error)
	LockForUpdate(ctx context.Context, activityID, userID int32) (*domain.Signup, error)
	CountByActivity(ctx context.Context, activityID int32) (int64, error)
	ListByActivity(ctx context.Context, activityID int32) ([]domain.Signup, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Signup, error)
	SetCheckIn(ctx context.Context, id int32, checkIn bool) error
	Delete(ctx context.Context, id int32) error
}

type FinanceRepository interface {
	Create(ctx context.Context, entry *domain.FinanceEntry) error
	List(ctx context.Context, filter domain.FinanceFilter) ([]domain.FinanceEntry, error)
	Totals(ctx context.Context) (*domain.FinanceTotals, error)
	NetByUser(ctx context.Context) (map[int32]domain.Money, error)
}

type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id int32) (*domain.Notice, error)
	List(ctx context.Context, offset, limit int32) ([]domain.Notice, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.Notice, error)
	Update(ctx context.Context, notice *domain.Notice) error
	Delete(ctx context.Context, id int32) error
}

type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id int32) (*domain.Tag, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int32) (*domain.Post, error)
	// List returns newest posts first, restricted to tagID when it is set.
	List(ctx context.Context, tagID *int32, offset, limit int32) ([]domain.Post, error)
	LockForUpdate(ctx context.Context, id int32) (*domain.Post, error)
	LockByAuthor(ctx context.Context, userID int32) ([]int32, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id int32) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int32) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int32, offset, limit int32) ([]domain.Comment, error)
	Delete(ctx context.Context, id int32) error
}

// StatsRepository answers the dashboard aggregates. Months are keyed
// "YYYY-MM" in UTC.
type StatsRepository interface {
	Counts(ctx context.Context) (*domain.ClubCounts, error)
	IncomeSince(ctx context.Context, since time.Time) (domain.Money, error)
	ActiveRentersSince(ctx context.Context, since time.Time) (int64, error)
	BoatUsage(ctx context.Context) ([]domain.BoatUsage, error)
	IncomeByMonth(ctx context.Context, since time.Time) (map[string]domain.Money, error)
	SignupsByMonth(ctx context.Context, since time.Time) (map[string]int64, error)
}

// Repositories gives access to every repository bound to the same handle,
// either the pool or a single transaction.
type Repositories interface {
	Users() UserRepository
	Boats() BoatRepository
	Rentals() RentalRepository
	Activities() ActivityRepository
	Signups() SignupRepository
	Finances() FinanceRepository
	Notices() NoticeRepository
	Tags() TagRepository
	Posts() PostRepository
	Comments() CommentRepository
	Stats() StatsRepository
}

// TxFunc runs inside a transaction. Returning an error rolls it back.
type TxFunc func(ctx context.Context, repos Repositories) error

type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type Store interface {
	Repositories
	TxManager
	Ping(ctx context.Context) error
	Close() error
}
