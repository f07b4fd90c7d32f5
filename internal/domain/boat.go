package domain

import "time"

type BoatStatus string

const (
	BoatStatusAvailable   BoatStatus = "AVAILABLE"
	BoatStatusRented      BoatStatus = "RENTED"
	BoatStatusMaintenance BoatStatus = "MAINTENANCE"
)

func (s BoatStatus) Valid() bool {
	switch s {
	case BoatStatusAvailable, BoatStatusRented, BoatStatusMaintenance:
		return true
	}
	return false
}

type Boat struct {
	ID          int32      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Type        string     `json:"type" db:"type"`
	Status      BoatStatus `json:"status" db:"status"`
	RentalPrice Money      `json:"rental_price" db:"rental_price"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	Description string     `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// BoatUpdate carries a partial update; nil fields are left untouched.
type BoatUpdate struct {
	Name        *string
	Type        *string
	Status      *BoatStatus
	RentalPrice *Money
	ImageURL    *string
	Description *string
}
