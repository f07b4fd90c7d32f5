package domain

import "time"

type RentalStatus string

const (
	RentalStatusActive   RentalStatus = "active"
	RentalStatusReturned RentalStatus = "returned"
)

// Rental is a BoatRental row. Price is the amount charged when the boat was
// rented; a returned rental is immutable history.
type Rental struct {
	ID         int32        `json:"id" db:"id"`
	BoatID     int32        `json:"boat_id" db:"boat_id"`
	UserID     int32        `json:"user_id" db:"user_id"`
	Price      Money        `json:"price" db:"price"`
	RentalTime time.Time    `json:"rental_time" db:"rental_time"`
	ReturnTime *time.Time   `json:"return_time,omitempty" db:"return_time"`
	Status     RentalStatus `json:"status" db:"status"`
}

func (r *Rental) IsActive() bool {
	return r.Status == RentalStatusActive && r.ReturnTime == nil
}
