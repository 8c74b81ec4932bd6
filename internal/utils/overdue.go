package utils

import "time"

// DaysOverdue returns the number of whole 24-hour periods by which ref
// is past due. A loan due less than a full day ago accrues nothing.
func DaysOverdue(due, ref time.Time) int64 {
	if !ref.After(due) {
		return 0
	}
	return int64(ref.Sub(due) / (24 * time.Hour))
}

// FineAmountCents computes the fine owed for a loan returned (or still
// outstanding) at ref, at the given daily rate.
func FineAmountCents(due, ref time.Time, ratePerDayCents int64) int64 {
	return DaysOverdue(due, ref) * ratePerDayCents
}
