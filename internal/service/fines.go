package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
	"library-backend/internal/utils"
)

type fineService struct {
	fineRepo        repository.FineRepository
	transactionRepo repository.TransactionRepository
	memberRepo      repository.MemberRepository
	bookRepo        repository.BookRepository
	emailSvc        EmailService
	rates           config.FinesConfig

	now func() time.Time
}

func NewFineService(
	fineRepo repository.FineRepository,
	transactionRepo repository.TransactionRepository,
	memberRepo repository.MemberRepository,
	bookRepo repository.BookRepository,
	emailSvc EmailService,
	rates config.FinesConfig,
) FineService {
	return &fineService{
		fineRepo:        fineRepo,
		transactionRepo: transactionRepo,
		memberRepo:      memberRepo,
		bookRepo:        bookRepo,
		emailSvc:        emailSvc,
		rates:           rates,
		now:             time.Now,
	}
}

// RunAccrualScan walks every overdue loan and issues the fine it has
// earned so far. Already-fined transactions are skipped via the unique
// constraint on fines.transaction_id, so overlapping scans are safe.
func (s *fineService) RunAccrualScan(ctx context.Context) (int, error) {
	overdue, err := s.transactionRepo.ListDueBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}

	issued := 0
	for i := range overdue {
		fine, err := s.AssessTransaction(ctx, &overdue[i])
		if err != nil {
			logger.ErrorContext(ctx, "failed to assess overdue transaction",
				"transaction_id", overdue[i].ID, "error", err)
			continue
		}
		if fine != nil {
			issued++
		}
	}

	logger.InfoContext(ctx, "fine accrual scan complete", "overdue", len(overdue), "issued", issued)
	return issued, nil
}

// AssessTransaction issues a fine for tx if it is overdue and has none
// yet. Returns (nil, nil) when nothing is owed or the fine already
// exists.
func (s *fineService) AssessTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Fine, error) {
	ref := s.now()
	if tx.ReturnDate != nil {
		ref = *tx.ReturnDate
	}

	days := utils.DaysOverdue(tx.DueDate, ref)
	if days == 0 {
		return nil, nil
	}

	// An outstanding loan past its due date shows as overdue from here on.
	if tx.Status == domain.TransactionStatusActive {
		tx.Status = domain.TransactionStatusOverdue
		if err := s.transactionRepo.Update(ctx, tx); err != nil {
			return nil, err
		}
	}

	fine := &domain.Fine{
		TransactionID: tx.ID,
		AmountCents:   days * s.rates.RatePerDayCents,
		IssuedDate:    s.now(),
		Status:        domain.FineStatusUnpaid,
		Reason:        fmt.Sprintf("returned %d day(s) late", days),
	}
	if tx.ReturnDate == nil {
		fine.Reason = fmt.Sprintf("%d day(s) overdue", days)
	}

	if err := s.fineRepo.Create(ctx, fine); err != nil {
		if errors.Is(err, domain.ErrFineExists) {
			return nil, nil
		}
		return nil, err
	}

	s.notifyFineIssued(ctx, tx, fine)
	return fine, nil
}

func (s *fineService) notifyFineIssued(ctx context.Context, tx *domain.Transaction, fine *domain.Fine) {
	if s.emailSvc == nil {
		return
	}
	member, err := s.memberRepo.GetByID(ctx, tx.MemberID)
	if err != nil {
		return
	}
	title := tx.ISBN
	if book, err := s.bookRepo.GetByISBN(ctx, tx.ISBN); err == nil {
		title = book.Title
	}
	_ = s.emailSvc.SendFineIssuedNotice(ctx, member.Email, member.Name, title, fine.AmountCents)
}

// IssueFine records a manually assessed fine, e.g. for a damaged copy.
func (s *fineService) IssueFine(ctx context.Context, transactionID int32, amountCents int64, reason string) (*domain.Fine, error) {
	tx, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if amountCents <= 0 {
		return nil, fmt.Errorf("fine amount must be positive, got %d", amountCents)
	}

	fine := &domain.Fine{
		TransactionID: tx.ID,
		AmountCents:   amountCents,
		IssuedDate:    s.now(),
		Status:        domain.FineStatusUnpaid,
		Reason:        reason,
	}
	if err := s.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}

	s.notifyFineIssued(ctx, tx, fine)
	logger.InfoContext(ctx, "fine issued", "fine_id", fine.ID, "transaction_id", tx.ID, "amount_cents", amountCents)
	return fine, nil
}

func (s *fineService) PayFine(ctx context.Context, fineID, memberID int32) (*domain.Fine, error) {
	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}

	tx, err := s.transactionRepo.GetByID(ctx, fine.TransactionID)
	if err != nil {
		return nil, err
	}
	if memberID != 0 && tx.MemberID != memberID {
		return nil, domain.ErrUnauthorized
	}
	if fine.Status == domain.FineStatusPaid {
		return nil, domain.ErrFineAlreadyPaid
	}

	// The store guards the UNPAID -> PAID transition, so a concurrent
	// payment that slipped past the check above still loses here.
	now := s.now()
	if err := s.fineRepo.MarkPaid(ctx, fine.ID, now); err != nil {
		return nil, err
	}
	fine.Status = domain.FineStatusPaid
	fine.PaymentDate = &now

	if s.emailSvc != nil {
		if member, memberErr := s.memberRepo.GetByID(ctx, tx.MemberID); memberErr == nil {
			_ = s.emailSvc.SendFinePaidReceipt(ctx, member.Email, member.Name, fine.AmountCents)
		}
	}

	logger.InfoContext(ctx, "fine paid", "fine_id", fine.ID, "member_id", tx.MemberID, "amount_cents", fine.AmountCents)
	return fine, nil
}

func (s *fineService) GetFine(ctx context.Context, fineID int32) (*domain.Fine, error) {
	return s.fineRepo.GetByID(ctx, fineID)
}

func (s *fineService) ListMemberFines(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return s.fineRepo.ListByMember(ctx, memberID)
}

func (s *fineService) ListUnpaidMemberFines(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return s.fineRepo.ListUnpaidByMember(ctx, memberID)
}

func (s *fineService) ListAllFines(ctx context.Context) ([]domain.Fine, error) {
	return s.fineRepo.ListAll(ctx)
}
