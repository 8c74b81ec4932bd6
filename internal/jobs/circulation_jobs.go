package jobs

import (
	"context"
	"time"

	"library-backend/internal/logger"
	"library-backend/internal/utils"
)

// AccrueFines issues fines for every overdue loan that has none yet
func (jr *JobRunner) AccrueFines() {
	jr.runWithRecovery("AccrueFines", func() {
		ctx := context.Background()

		issued, err := jr.services.Fine.RunAccrualScan(ctx)
		if err != nil {
			logger.Error("Failed to run fine accrual scan", "error", err)
			return
		}

		logger.Info("Issued fines for overdue loans", "count", issued)
	})
}

// ExpireReservations cancels reservations past the holding window
func (jr *JobRunner) ExpireReservations() {
	jr.runWithRecovery("ExpireReservations", func() {
		ctx := context.Background()

		expired, err := jr.services.Circulation.ExpireReservations(ctx)
		if err != nil {
			logger.Error("Failed to expire reservations", "error", err)
			return
		}

		logger.Info("Expired stale reservations", "count", expired)
	})
}

// SendOverdueNotices emails every member holding an overdue loan
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()

		transactions, err := jr.services.Circulation.ListAllTransactions(ctx)
		if err != nil {
			logger.Error("Failed to list transactions", "error", err)
			return
		}

		now := time.Now()
		sent := 0
		for i := range transactions {
			tx := &transactions[i]
			if !tx.Outstanding() {
				continue
			}
			days := utils.DaysOverdue(tx.DueDate, now)
			if days == 0 {
				continue
			}

			member, err := jr.services.Member.GetMember(ctx, tx.MemberID)
			if err != nil {
				logger.Error("Failed to load member for overdue notice",
					"member_id", tx.MemberID, "error", err)
				continue
			}

			title := tx.ISBN
			if book, _, _, err := jr.services.Catalog.GetBook(ctx, tx.ISBN); err == nil {
				title = book.Title
			}

			if err := jr.services.Email.SendOverdueNotice(ctx, member.Email, member.Name, title, days); err != nil {
				logger.Error("Failed to send overdue notice",
					"member_id", member.ID, "transaction_id", tx.ID, "error", err)
				continue
			}
			sent++

			logger.Debug("Sent overdue notice",
				"transaction_id", tx.ID,
				"member_id", member.ID,
				"isbn", tx.ISBN,
				"days_overdue", days)
		}

		logger.Info("Sent overdue notices", "count", sent)
	})
}
