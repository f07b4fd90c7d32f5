package service

import (
	"context"
	"time"

	"sailing-club-backend/internal/domain"
	"sailing-club-backend/internal/logger"
	"sailing-club-backend/internal/metrics"
	"sailing-club-backend/internal/repository"
)

type activityService struct {
	store    repository.Store
	emailSvc EmailService
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewActivityService(store repository.Store, emailSvc EmailService, m *metrics.Metrics) ActivityService {
	return &activityService{store: store, emailSvc: emailSvc, metrics: m, now: time.Now}
}

func (s *activityService) ListActivities(ctx context.Context, skip, limit int32) ([]domain.Activity, error) {
	return s.store.Activities().List(ctx, skip, limit)
}

func (s *activityService) GetActivity(ctx context.Context, id int32) (*domain.Activity, error) {
	return s.store.Activities().GetByID(ctx, id)
}

func (s *activityService) CreateActivity(ctx context.Context, p domain.Principal, activity *domain.Activity) error {
	activity.CreatorID = p.UserID
	if err := activity.Validate(); err != nil {
		return err
	}
	if err := s.store.Activities().Create(ctx, activity); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Activity created", "activity_id", activity.ID, "creator_id", p.UserID)
	return nil
}

func (s *activityService) UpdateActivity(ctx context.Context, p domain.Principal, id int32, in domain.ActivityUpdate) (activity *domain.Activity, err error) {
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		a, err := repos.Activities().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !a.CanManage(p) {
			return domain.Forbidden("only the creator or an administrator may edit this activity")
		}

		if in.Title != nil {
			a.Title = *in.Title
		}
		if in.Description != nil {
			a.Description = *in.Description
		}
		if in.Location != nil {
			a.Location = *in.Location
		}
		if in.StartTime != nil {
			a.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			a.EndTime = *in.EndTime
		}
		if in.MaxParticipants != nil {
			a.MaxParticipants = *in.MaxParticipants
		}
		if err := a.Validate(); err != nil {
			return err
		}

		if in.MaxParticipants != nil && a.MaxParticipants > 0 {
			count, err := repos.Signups().CountByActivity(ctx, a.ID)
			if err != nil {
				return err
			}
			if count > int64(a.MaxParticipants) {
				return domain.InvalidState("activity already has %d participants", count)
			}
		}

		if err := repos.Activities().Update(ctx, a); err != nil {
			return err
		}
		activity = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) DeleteActivity(ctx context.Context, p domain.Principal, id int32) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		a, err := repos.Activities().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !a.CanManage(p) {
			return domain.Forbidden("only the creator or an administrator may delete this activity")
		}
		return repos.Activities().Delete(ctx, id)
	})
}

// SignUp serializes on the activity row. The duplicate and capacity checks
// run only after the lock is held, so concurrent sign-ups can never push
// the count past max_participants.
func (s *activityService) SignUp(ctx context.Context, p domain.Principal, activityID int32) (signup *domain.Signup, err error) {
	logger.EnterMethod("activityService.SignUp", "activityID", activityID, "userID", p.UserID)
	defer func(started time.Time) {
		observe(ctx, s.metrics, "activity_signup", started, err, "activity_id", activityID, "user_id", p.UserID)
	}(time.Now())

	var activity *domain.Activity
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		a, err := repos.Activities().LockForUpdate(ctx, activityID)
		if err != nil {
			return err
		}

		if _, err := repos.Signups().Get(ctx, activityID, p.UserID); err == nil {
			return domain.Duplicate("already signed up")
		} else if domain.KindOf(err) != domain.KindNotFound {
			return err
		}

		count, err := repos.Signups().CountByActivity(ctx, activityID)
		if err != nil {
			return err
		}
		if !a.HasRoomFor(count) {
			return domain.CapacityExceeded("activity is full")
		}

		sg := &domain.Signup{
			ActivityID: activityID,
			UserID:     p.UserID,
			SignupTime: s.now().UTC(),
		}
		if err := repos.Signups().Create(ctx, sg); err != nil {
			return err
		}
		signup, activity = sg, a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if user, err := s.store.Users().GetByID(ctx, p.UserID); err == nil {
		if err := s.emailSvc.SendSignupConfirmation(ctx, user, activity); err != nil {
			logger.WarnContext(ctx, "Failed to send signup confirmation", "signup_id", signup.ID, "error", err)
		}
	}
	return signup, nil
}

// CheckIn marks the caller's own signup as attended. Checking in twice is a
// no-op.
func (s *activityService) CheckIn(ctx context.Context, p domain.Principal, activityID int32) (signup *domain.Signup, err error) {
	logger.EnterMethod("activityService.CheckIn", "activityID", activityID, "userID", p.UserID)
	defer func(started time.Time) {
		observe(ctx, s.metrics, "activity_checkin", started, err, "activity_id", activityID, "user_id", p.UserID)
	}(time.Now())

	err = s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		sg, err := repos.Signups().LockForUpdate(ctx, activityID, p.UserID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return domain.NotFound("not signed up for this activity")
			}
			return err
		}
		if !sg.CheckIn {
			if err := repos.Signups().SetCheckIn(ctx, sg.ID, true); err != nil {
				return err
			}
			sg.CheckIn = true
		}
		signup = sg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signup, nil
}

func (s *activityService) CancelSignUp(ctx context.Context, p domain.Principal, activityID int32) (err error) {
	logger.EnterMethod("activityService.CancelSignUp", "activityID", activityID, "userID", p.UserID)
	defer func(started time.Time) {
		observe(ctx, s.metrics, "activity_cancel_signup", started, err, "activity_id", activityID, "user_id", p.UserID)
	}(time.Now())

	return s.store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Activities().LockForUpdate(ctx, activityID); err != nil {
			return err
		}
		sg, err := repos.Signups().Get(ctx, activityID, p.UserID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return domain.NotFound("not signed up for this activity")
			}
			return err
		}
		return repos.Signups().Delete(ctx, sg.ID)
	})
}

func (s *activityService) ListSignups(ctx context.Context, p domain.Principal, activityID int32) ([]domain.Signup, error) {
	a, err := s.store.Activities().GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if !a.CanManage(p) {
		return nil, domain.Forbidden("only the creator or an administrator may list signups")
	}
	return s.store.Signups().ListByActivity(ctx, activityID)
}

func (s *activityService) ListMySignups(ctx context.Context, p domain.Principal) ([]domain.Signup, error) {
	return s.store.Signups().ListByUser(ctx, p.UserID)
}
