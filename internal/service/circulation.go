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
)

type circulationService struct {
	bookRepo        repository.BookRepository
	memberRepo      repository.MemberRepository
	transactionRepo repository.TransactionRepository
	reservationRepo repository.ReservationRepository
	emailSvc        EmailService
	fineSvc         FineService
	rules           config.CirculationConfig

	// isbnLocks serializes inventory-affecting operations per book,
	// memberLocks serializes limit checks per member. Borrow and Return
	// take the ISBN lock first, then the member lock.
	isbnLocks   *keyMutex
	memberLocks *keyMutex

	now func() time.Time
}

func NewCirculationService(
	bookRepo repository.BookRepository,
	memberRepo repository.MemberRepository,
	transactionRepo repository.TransactionRepository,
	reservationRepo repository.ReservationRepository,
	emailSvc EmailService,
	fineSvc FineService,
	rules config.CirculationConfig,
) CirculationService {
	return &circulationService{
		bookRepo:        bookRepo,
		memberRepo:      memberRepo,
		transactionRepo: transactionRepo,
		reservationRepo: reservationRepo,
		emailSvc:        emailSvc,
		fineSvc:         fineSvc,
		rules:           rules,
		isbnLocks:       newKeyMutex(),
		memberLocks:     newKeyMutex(),
		now:             time.Now,
	}
}

func (s *circulationService) Borrow(ctx context.Context, isbn string, memberID int32) (*domain.Transaction, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.ErrMemberInactive
	}

	unlockISBN := s.isbnLocks.Lock(isbn)
	defer unlockISBN()
	unlockMember := s.memberLocks.Lock(memberKey(memberID))
	defer unlockMember()

	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book.AvailableCopies <= 0 {
		return nil, domain.ErrBookNotAvailable
	}

	active, err := s.transactionRepo.GetActiveByMemberAndISBN(ctx, memberID, isbn)
	if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrAlreadyBorrowed
	}

	outstanding, err := s.transactionRepo.CountOutstandingByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if outstanding >= s.rules.BorrowLimit {
		return nil, domain.ErrBorrowLimitExceeded
	}

	if err := s.bookRepo.DecrementAvailable(ctx, isbn); err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			return nil, domain.ErrBookNotAvailable
		}
		return nil, err
	}

	now := s.now()
	tx := &domain.Transaction{
		ISBN:            isbn,
		MemberID:        memberID,
		TransactionDate: now,
		DueDate:         now.AddDate(0, 0, s.rules.LoanPeriodDays),
		Status:          domain.TransactionStatusActive,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		// Put the copy back so the counter stays consistent.
		if compErr := s.bookRepo.IncrementAvailable(ctx, isbn); compErr != nil {
			logger.ErrorContext(ctx, "failed to restore available copy after borrow failure",
				"isbn", isbn, "error", compErr)
		}
		return nil, err
	}

	// A borrow fulfils the member's own reservation for the same book.
	if res, resErr := s.reservationRepo.GetActiveByMemberAndISBN(ctx, memberID, isbn); resErr == nil && res != nil {
		res.Status = domain.ReservationStatusFulfilled
		if updErr := s.reservationRepo.Update(ctx, res); updErr != nil {
			logger.ErrorContext(ctx, "failed to mark reservation fulfilled",
				"reservation_id", res.ID, "error", updErr)
		}
	}

	logger.InfoContext(ctx, "book borrowed", "isbn", isbn, "member_id", memberID, "due_date", tx.DueDate)
	return tx, nil
}

func (s *circulationService) Return(ctx context.Context, isbn string, memberID int32) (*domain.Transaction, error) {
	unlockISBN := s.isbnLocks.Lock(isbn)
	defer unlockISBN()
	unlockMember := s.memberLocks.Lock(memberKey(memberID))
	defer unlockMember()

	tx, err := s.transactionRepo.GetActiveByMemberAndISBN(ctx, memberID, isbn)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, domain.ErrNoActiveBorrow
		}
		return nil, err
	}

	now := s.now()
	tx.Status = domain.TransactionStatusReturned
	tx.ReturnDate = &now
	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	if err := s.bookRepo.IncrementAvailable(ctx, isbn); err != nil {
		// Put the loan back so the ledger and the shelf stay in step.
		tx.Status = domain.TransactionStatusActive
		tx.ReturnDate = nil
		if revertErr := s.transactionRepo.Update(ctx, tx); revertErr != nil {
			logger.ErrorContext(ctx, "failed to revert return after shelf update failure",
				"isbn", isbn, "transaction_id", tx.ID, "error", revertErr)
		}
		return nil, err
	}

	// Charge a late return on the spot rather than waiting for the
	// nightly scan.
	if s.fineSvc != nil {
		if _, fineErr := s.fineSvc.AssessTransaction(ctx, tx); fineErr != nil {
			logger.ErrorContext(ctx, "failed to assess fine on return",
				"transaction_id", tx.ID, "error", fineErr)
		}
	}

	logger.InfoContext(ctx, "book returned", "isbn", isbn, "member_id", memberID, "transaction_id", tx.ID)
	return tx, nil
}

func (s *circulationService) Reserve(ctx context.Context, isbn string, memberID int32) (*domain.Reservation, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, domain.ErrMemberInactive
	}

	unlockMember := s.memberLocks.Lock(memberKey(memberID))
	defer unlockMember()

	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if book.AvailableCopies > 0 && !s.rules.AllowReservingAvailable {
		return nil, domain.ErrBookAvailable
	}

	existing, err := s.reservationRepo.GetActiveByMemberAndISBN(ctx, memberID, isbn)
	if err != nil && !errors.Is(err, domain.ErrReservationNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrReservationExists
	}

	count, err := s.reservationRepo.CountActiveByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if count >= s.rules.ReservationLimit {
		return nil, domain.ErrReservationLimitExceeded
	}

	res := &domain.Reservation{
		ISBN:            isbn,
		MemberID:        memberID,
		ReservationDate: s.now(),
		Status:          domain.ReservationStatusActive,
	}
	if err := s.reservationRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "book reserved", "isbn", isbn, "member_id", memberID, "reservation_id", res.ID)
	return res, nil
}

func (s *circulationService) CancelReservation(ctx context.Context, reservationID, memberID int32) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if memberID != 0 && res.MemberID != memberID {
		return nil, domain.ErrUnauthorized
	}
	if res.Status != domain.ReservationStatusActive {
		return nil, domain.ErrReservationNotActive
	}

	res.Status = domain.ReservationStatusCancelled
	if err := s.reservationRepo.Update(ctx, res); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "reservation cancelled", "reservation_id", res.ID, "member_id", res.MemberID)
	return res, nil
}

func (s *circulationService) ListMemberTransactions(ctx context.Context, memberID int32) ([]domain.Transaction, error) {
	return s.transactionRepo.ListByMember(ctx, memberID)
}

func (s *circulationService) ListMemberReservations(ctx context.Context, memberID int32) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByMember(ctx, memberID)
}

func (s *circulationService) ListAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactionRepo.ListAll(ctx)
}

func (s *circulationService) ListAllReservations(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservationRepo.ListAll(ctx)
}

// ExpireReservations cancels reservations older than the holding window
// and notifies the affected members.
func (s *circulationService) ExpireReservations(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(0, 0, -s.rules.ReservationWindowDays)
	stale, err := s.reservationRepo.ListActiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range stale {
		res := &stale[i]
		res.Status = domain.ReservationStatusCancelled
		if err := s.reservationRepo.Update(ctx, res); err != nil {
			logger.ErrorContext(ctx, "failed to expire reservation",
				"reservation_id", res.ID, "error", err)
			continue
		}
		expired++

		member, memberErr := s.memberRepo.GetByID(ctx, res.MemberID)
		book, bookErr := s.bookRepo.GetByISBN(ctx, res.ISBN)
		if memberErr == nil && bookErr == nil && s.emailSvc != nil {
			_ = s.emailSvc.SendReservationCancelledNotice(ctx, member.Email, member.Name, book.Title,
				fmt.Sprintf("not collected within %d days", s.rules.ReservationWindowDays))
		}
	}

	return expired, nil
}

func memberKey(memberID int32) string {
	return fmt.Sprintf("member:%d", memberID)
}
