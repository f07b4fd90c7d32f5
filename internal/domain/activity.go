package domain

import "time"

type Activity struct {
	ID              int32     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Location        string    `json:"location" db:"location"`
	StartTime       time.Time `json:"start_time" db:"start_time"`
	EndTime         time.Time `json:"end_time" db:"end_time"`
	MaxParticipants int32     `json:"max_participants" db:"max_participants"`
	CreatorID       int32     `json:"creator_id" db:"creator_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks the fields an activity must satisfy on create and after
// every edit.
func (a *Activity) Validate() error {
	if a.Title == "" {
		return InvalidArgument("title is required")
	}
	if !a.EndTime.After(a.StartTime) {
		return InvalidArgument("end_time must be after start_time")
	}
	if a.MaxParticipants < 0 {
		return InvalidArgument("max_participants must not be negative")
	}
	return nil
}

// HasRoomFor reports whether one more signup fits when count signups exist.
// Zero capacity means unlimited.
func (a *Activity) HasRoomFor(count int64) bool {
	return a.MaxParticipants == 0 || count < int64(a.MaxParticipants)
}

// CanManage reports whether p may edit, delete or inspect signups.
func (a *Activity) CanManage(p Principal) bool {
	return p.IsAdmin() || a.CreatorID == p.UserID
}

type ActivityUpdate struct {
	Title           *string
	Description     *string
	Location        *string
	StartTime       *time.Time
	EndTime         *time.Time
	MaxParticipants *int32
}

type Signup struct {
	ID         int32     `json:"id" db:"id"`
	ActivityID int32     `json:"activity_id" db:"activity_id"`
	UserID     int32     `json:"user_id" db:"user_id"`
	SignupTime time.Time `json:"signup_time" db:"signup_time"`
	CheckIn    bool      `json:"check_in" db:"check_in"`
}
