package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqNumericOutOfRange    = "22003"
	pqLockNotAvailable     = "55P03"
	pqDeadlockDetected     = "40P01"
	pqSerializationFailure = "40001"
)

// Open connects to Postgres through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type repos struct {
	users      repository.UserRepository
	boats      repository.BoatRepository
	rentals    repository.RentalRepository
	activities repository.ActivityRepository
	signups    repository.SignupRepository
	finances   repository.FinanceRepository
	notices    repository.NoticeRepository
	tags       repository.TagRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	stats      repository.StatsRepository
}

func newRepos(db sqlx.ExtContext) *repos {
	return &repos{
		users:      NewUserRepository(db),
		boats:      NewBoatRepository(db),
		rentals:    NewRentalRepository(db),
		activities: NewActivityRepository(db),
		signups:    NewSignupRepository(db),
		finances:   NewFinanceRepository(db),
		notices:    NewNoticeRepository(db),
		tags:       NewTagRepository(db),
		posts:      NewPostRepository(db),
		comments:   NewCommentRepository(db),
		stats:      NewStatsRepository(db),
	}
}

func (r *repos) Users() repository.UserRepository { return r.users }
func (r *repos) Boats() repository.BoatRepository { return r.boats }
func (r *repos) Rentals() repository.RentalRepository { return r.rentals }
func (r *repos) Activities() repository.ActivityRepository { return r.activities }
func (r *repos) Signups() repository.SignupRepository { return r.signups }
func (r *repos) Finances() repository.FinanceRepository { return r.finances }
func (r *repos) Notices() repository.NoticeRepository { return r.notices }
func (r *repos) Tags() repository.TagRepository { return r.tags }
func (r *repos) Posts() repository.PostRepository { return r.posts }
func (r *repos) Comments() repository.CommentRepository { return r.comments }
func (r *repos) Stats() repository.StatsRepository { return r.stats }

// Store is the Postgres-backed repository.Store. Its repositories run on the
// pool; WithinTx hands out repositories bound to a single transaction.
type Store struct {
	*repos
	db          *sqlx.DB
	lockTimeout time.Duration
}

func NewStore(db *sqlx.DB, lockTimeout time.Duration) *Store {
	return &Store{
		repos:       newRepos(db),
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn in a transaction. Row locks taken by fn are held until
// commit. Any error or panic from fn rolls the transaction back.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.TransactionFailure(fmt.Errorf("begin transaction: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return domain.TransactionFailure(fmt.Errorf("set lock timeout: %w", err))
		}
	}

	if err := fn(ctx, newRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorContext(ctx, "Failed to roll back transaction", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.TransactionFailure(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// mapError converts driver errors into domain errors. what names the entity
// for not-found and duplicate messages.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("%s not found", what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return domain.Duplicate("%s already exists", what)
		case pqForeignKeyViolation:
			return domain.NotFound("%s references a missing row", what)
		case pqNumericOutOfRange:
			return domain.InvalidAmount("%s amount out of range", what)
		case pqLockNotAvailable, pqDeadlockDetected, pqSerializationFailure:
			return domain.TransactionFailure(err)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// expectAffected reports NotFound when an UPDATE or DELETE touched no row.
func expectAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return domain.NotFound("%s not found", what)
	}
	return nil
}

func limitOrDefault(limit int32) int32 {
	if limit <= 0 {
		return 100
	}
	return limit
}
