package domain

import "time"

type FineStatus string

const (
	FineStatusUnpaid FineStatus = "UNPAID"
	FineStatusPaid   FineStatus = "PAID"
)

// Fine is a charge for an overdue transaction. At most one fine exists
// per transaction; the store enforces uniqueness on TransactionID.
type Fine struct {
	ID            int32      `json:"id"`
	TransactionID int32      `json:"transaction_id"`
	AmountCents   int64      `json:"amount_cents"`
	IssuedDate    time.Time  `json:"issued_date"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Status        FineStatus `json:"status"`
	Reason        string     `json:"reason,omitempty"`
}
