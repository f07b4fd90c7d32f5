package service

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/repository"
)

// statsMonths is how many calendar months the history series cover,
// the current month included.
const statsMonths = 6

type statsService struct {
	store repository.Store
	now   func() time.Time
}

func NewStatsService(store repository.Store) StatsService {
	return &statsService{store: store, now: time.Now}
}

// NewStatsServiceAt is NewStatsService with a fixed clock.
func NewStatsServiceAt(store repository.Store, now func() time.Time) StatsService {
	return &statsService{store: store, now: now}
}

func (s *statsService) ClubStats(ctx context.Context, p domain.Principal) (*domain.ClubStats, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	logger.EnterMethod("statsService.ClubStats")

	stats, err := s.collect(ctx)
	if err != nil {
		logger.ExitMethodWithError("statsService.ClubStats", err)
		return nil, err
	}

	logger.ExitMethod("statsService.ClubStats", "users", stats.TotalUsers, "boats", stats.TotalBoats)
	return stats, nil
}

func (s *statsService) collect(ctx context.Context) (*domain.ClubStats, error) {
	stats := s.store.Stats()
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	historyStart := monthStart.AddDate(0, -(statsMonths - 1), 0)

	counts, err := stats.Counts(ctx)
	if err != nil {
		return nil, err
	}
	total, err := stats.IncomeSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	monthly, err := stats.IncomeSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	active, err := stats.ActiveRentersSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	usage, err := stats.BoatUsage(ctx)
	if err != nil {
		return nil, err
	}
	income, err := stats.IncomeByMonth(ctx, historyStart)
	if err != nil {
		return nil, err
	}
	signups, err := stats.SignupsByMonth(ctx, historyStart)
	if err != nil {
		return nil, err
	}

	out := &domain.ClubStats{
		TotalUsers:            counts.TotalUsers,
		TotalBoats:            counts.TotalBoats,
		TotalActivities:       counts.TotalActivities,
		TotalRevenue:          total,
		MonthlyRevenue:        monthly,
		ActiveUsers:           active,
		BoatUsage:             usage,
		RevenueHistory:        make([]domain.MonthlyRevenue, 0, statsMonths),
		ActivityParticipation: make([]domain.MonthlyCount, 0, statsMonths),
	}
	for i := 0; i < statsMonths; i++ {
		key := historyStart.AddDate(0, i, 0).Format("2006-01")
		revenue, ok := income[key]
		if !ok {
			revenue = domain.ZeroMoney
		}
		out.RevenueHistory = append(out.RevenueHistory, domain.MonthlyRevenue{Month: key, Revenue: revenue})
		out.ActivityParticipation = append(out.ActivityParticipation, domain.MonthlyCount{Month: key, Count: signups[key]})
	}
	return out, nil
}
