package jobs

import (
	"context"
	"time"

	"sailing-club-backend/internal/logger"
)

// RemindLongRentals emails members whose rental has been active for longer
// than rental.reminder_after_hours.
func (jr *JobRunner) RemindLongRentals() {
	jr.runWithRecovery("RemindLongRentals", func() {
		sent, err := jr.remindLongRentals(context.Background(), time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list long rentals", "error", err)
			return
		}
		logger.Info("Sent long rental reminders", "count", sent)
	})
}

func (jr *JobRunner) remindLongRentals(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-jr.config.RentalReminderAfter())
	rentals, err := jr.store.Rentals().ListActiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range rentals {
		rental := &rentals[i]

		user, err := jr.store.Users().GetByID(ctx, rental.UserID)
		if err != nil {
			logger.Error("Failed to load renter", "rental_id", rental.ID, "user_id", rental.UserID, "error", err)
			continue
		}
		boat, err := jr.store.Boats().GetByID(ctx, rental.BoatID)
		if err != nil {
			logger.Error("Failed to load rented boat", "rental_id", rental.ID, "boat_id", rental.BoatID, "error", err)
			continue
		}

		if err := jr.services.Email.SendRentalReminder(ctx, user, boat, rental); err != nil {
			logger.Error("Failed to send rental reminder", "rental_id", rental.ID, "user_id", user.ID, "error", err)
			continue
		}
		logger.Info("Rental reminder sent",
			"rental_id", rental.ID,
			"user_id", user.ID,
			"boat_id", boat.ID,
			"rented_for_hours", int(now.Sub(rental.RentalTime).Hours()),
		)
		sent++
	}
	return sent, nil
}
