package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusActive   TransactionStatus = "ACTIVE"
	TransactionStatusReturned TransactionStatus = "RETURNED"
	TransactionStatusOverdue  TransactionStatus = "OVERDUE"
)

// Transaction represents one borrow event. DueDate is fixed at creation
// (borrow date plus the configured loan period); ReturnDate stays nil
// until the book comes back.
type Transaction struct {
	ID              int32             `json:"id"`
	ISBN            string            `json:"isbn"`
	MemberID        int32             `json:"member_id"`
	TransactionDate time.Time         `json:"transaction_date"`
	DueDate         time.Time         `json:"due_date"`
	Status          TransactionStatus `json:"status"`
	ReturnDate      *time.Time        `json:"return_date,omitempty"`
}

// Outstanding reports whether the borrow is still open, counting toward
// the member's borrowing limit. Overdue transactions remain outstanding
// until returned.
func (t *Transaction) Outstanding() bool {
	return t.Status == TransactionStatusActive || t.Status == TransactionStatusOverdue
}
