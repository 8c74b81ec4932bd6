package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
)

// Reservation queues a member for a book with no free copies. It never
// touches the availability counter; borrowing the reserved book fulfils it.
type Reservation struct {
	ID              int32             `json:"id"`
	ISBN            string            `json:"isbn"`
	MemberID        int32             `json:"member_id"`
	ReservationDate time.Time         `json:"reservation_date"`
	Status          ReservationStatus `json:"status"`
}
