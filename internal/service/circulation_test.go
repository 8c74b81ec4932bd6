package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/repository/memory"
	"library-backend/internal/service"
)

func defaultRules() config.CirculationConfig {
	return config.CirculationConfig{
		BorrowLimit:           5,
		ReservationLimit:      3,
		LoanPeriodDays:        14,
		ReservationWindowDays: 7,
	}
}

func activeMember(id int32) *domain.Member {
	return &domain.Member{
		ID:       id,
		Name:     "Alice",
		Email:    "alice@example.com",
		Role:     domain.MemberRoleMember,
		IsActive: true,
	}
}

func TestCirculationService_Borrow(t *testing.T) {
	ctx := context.Background()
	isbn := "978-0134190440"
	memberID := int32(1)

	newSvc := func() (service.CirculationService, *MockBookRepo, *MockMemberRepo, *MockTransactionRepo, *MockReservationRepo) {
		bookRepo := new(MockBookRepo)
		memberRepo := new(MockMemberRepo)
		txRepo := new(MockTransactionRepo)
		resRepo := new(MockReservationRepo)
		svc := service.NewCirculationService(bookRepo, memberRepo, txRepo, resRepo, nil, nil, defaultRules())
		return svc, bookRepo, memberRepo, txRepo, resRepo
	}

	t.Run("Success", func(t *testing.T) {
		svc, bookRepo, memberRepo, txRepo, resRepo := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(&domain.Book{ISBN: isbn, AvailableCopies: 2, TotalCopies: 3}, nil)
		txRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(nil, domain.ErrTransactionNotFound)
		txRepo.On("CountOutstandingByMember", ctx, memberID).Return(int32(0), nil)
		bookRepo.On("DecrementAvailable", ctx, isbn).Return(nil)
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
		resRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(nil, domain.ErrReservationNotFound)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.NoError(t, err)
		assert.NotNil(t, tx)
		assert.Equal(t, domain.TransactionStatusActive, tx.Status)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), tx.DueDate, time.Minute)
	})

	t.Run("Book Not Found", func(t *testing.T) {
		svc, bookRepo, memberRepo, _, _ := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(nil, domain.ErrBookNotFound)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
		assert.Nil(t, tx)
	})

	t.Run("No Copies Available", func(t *testing.T) {
		svc, bookRepo, memberRepo, _, _ := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(&domain.Book{ISBN: isbn, AvailableCopies: 0, TotalCopies: 3}, nil)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.ErrorIs(t, err, domain.ErrBookNotAvailable)
		assert.Nil(t, tx)
	})

	t.Run("Already Borrowed", func(t *testing.T) {
		svc, bookRepo, memberRepo, txRepo, _ := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(&domain.Book{ISBN: isbn, AvailableCopies: 1, TotalCopies: 3}, nil)
		txRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(&domain.Transaction{ID: 7, ISBN: isbn, MemberID: memberID, Status: domain.TransactionStatusActive}, nil)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.ErrorIs(t, err, domain.ErrAlreadyBorrowed)
		assert.Nil(t, tx)
	})

	t.Run("Borrow Limit Exceeded", func(t *testing.T) {
		svc, bookRepo, memberRepo, txRepo, _ := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(&domain.Book{ISBN: isbn, AvailableCopies: 1, TotalCopies: 3}, nil)
		txRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(nil, domain.ErrTransactionNotFound)
		txRepo.On("CountOutstandingByMember", ctx, memberID).Return(int32(5), nil)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.ErrorIs(t, err, domain.ErrBorrowLimitExceeded)
		assert.Nil(t, tx)
	})

	t.Run("Inactive Member", func(t *testing.T) {
		svc, _, memberRepo, _, _ := newSvc()
		inactive := activeMember(memberID)
		inactive.IsActive = false
		memberRepo.On("GetByID", ctx, memberID).Return(inactive, nil)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.ErrorIs(t, err, domain.ErrMemberInactive)
		assert.Nil(t, tx)
	})

	t.Run("Copy Restored When Create Fails", func(t *testing.T) {
		svc, bookRepo, memberRepo, txRepo, _ := newSvc()
		memberRepo.On("GetByID", ctx, memberID).Return(activeMember(memberID), nil)
		bookRepo.On("GetByISBN", ctx, isbn).Return(&domain.Book{ISBN: isbn, AvailableCopies: 1, TotalCopies: 3}, nil)
		txRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(nil, domain.ErrTransactionNotFound)
		txRepo.On("CountOutstandingByMember", ctx, memberID).Return(int32(0), nil)
		bookRepo.On("DecrementAvailable", ctx, isbn).Return(nil)
		txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Return(assert.AnError)
		bookRepo.On("IncrementAvailable", ctx, isbn).Return(nil)

		tx, err := svc.Borrow(ctx, isbn, memberID)
		assert.Error(t, err)
		assert.Nil(t, tx)
		bookRepo.AssertCalled(t, "IncrementAvailable", ctx, isbn)
	})
}

func TestCirculationService_ReturnRevertsWhenShelfUpdateFails(t *testing.T) {
	ctx := context.Background()
	isbn := "978-0134190440"
	memberID := int32(1)

	bookRepo := new(MockBookRepo)
	memberRepo := new(MockMemberRepo)
	txRepo := new(MockTransactionRepo)
	resRepo := new(MockReservationRepo)
	svc := service.NewCirculationService(bookRepo, memberRepo, txRepo, resRepo, nil, nil, defaultRules())

	active := &domain.Transaction{ID: 7, ISBN: isbn, MemberID: memberID, Status: domain.TransactionStatusActive}
	txRepo.On("GetActiveByMemberAndISBN", ctx, memberID, isbn).Return(active, nil)
	txRepo.On("Update", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)
	bookRepo.On("IncrementAvailable", ctx, isbn).Return(assert.AnError)

	tx, err := svc.Return(ctx, isbn, memberID)
	assert.Error(t, err)
	assert.Nil(t, tx)

	// The loan was put back exactly as it was.
	assert.Equal(t, domain.TransactionStatusActive, active.Status)
	assert.Nil(t, active.ReturnDate)
	txRepo.AssertNumberOfCalls(t, "Update", 2)
}

func newMemoryFixture(t *testing.T) (*memory.Store, service.CirculationService) {
	t.Helper()
	store := memory.NewStore()
	svc := service.NewCirculationService(
		store.Books(),
		store.Members(),
		store.Transactions(),
		store.Reservations(),
		nil,
		nil,
		defaultRules(),
	)
	return store, svc
}

func seedBook(t *testing.T, store *memory.Store, isbn string, available, total int32) {
	t.Helper()
	err := store.Create(context.Background(), &domain.Book{
		ISBN:            isbn,
		Title:           "The Go Programming Language",
		AvailableCopies: available,
		TotalCopies:     total,
	})
	assert.NoError(t, err)
}

func seedMember(t *testing.T, store *memory.Store, email string) int32 {
	t.Helper()
	m := &domain.Member{
		Name:     "Reader",
		Email:    email,
		Role:     domain.MemberRoleMember,
		IsActive: true,
	}
	err := store.CreateMember(context.Background(), m)
	assert.NoError(t, err)
	return m.ID
}

func TestCirculationService_BorrowReturnRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, svc := newMemoryFixture(t)
	seedBook(t, store, "isbn-1", 1, 1)
	memberID := seedMember(t, store, "reader@example.com")

	tx, err := svc.Borrow(ctx, "isbn-1", memberID)
	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusActive, tx.Status)

	book, err := store.GetByISBN(ctx, "isbn-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(0), book.AvailableCopies)

	// Second borrow of the same book is rejected before the counter moves.
	_, err = svc.Borrow(ctx, "isbn-1", memberID)
	assert.ErrorIs(t, err, domain.ErrBookNotAvailable)

	returned, err := svc.Return(ctx, "isbn-1", memberID)
	assert.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusReturned, returned.Status)
	assert.NotNil(t, returned.ReturnDate)

	book, err = store.GetByISBN(ctx, "isbn-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(1), book.AvailableCopies)

	// Nothing outstanding, so a second return fails.
	_, err = svc.Return(ctx, "isbn-1", memberID)
	assert.ErrorIs(t, err, domain.ErrNoActiveBorrow)
}

func TestCirculationService_ConcurrentBorrowSingleCopy(t *testing.T) {
	ctx := context.Background()
	store, svc := newMemoryFixture(t)
	seedBook(t, store, "isbn-hot", 1, 1)

	const borrowers = 10
	memberIDs := make([]int32, borrowers)
	for i := 0; i < borrowers; i++ {
		memberIDs[i] = seedMember(t, store, string(rune('a'+i))+"@example.com")
	}

	var wg sync.WaitGroup
	errs := make([]error, borrowers)
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Borrow(ctx, "isbn-hot", memberIDs[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrBookNotAvailable)
		}
	}
	assert.Equal(t, 1, succeeded)

	book, err := store.GetByISBN(ctx, "isbn-hot")
	assert.NoError(t, err)
	assert.Equal(t, int32(0), book.AvailableCopies)
}

func TestCirculationService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Rejected While Copies Available", func(t *testing.T) {
		store, svc := newMemoryFixture(t)
		seedBook(t, store, "isbn-2", 2, 2)
		memberID := seedMember(t, store, "r1@example.com")

		_, err := svc.Reserve(ctx, "isbn-2", memberID)
		assert.ErrorIs(t, err, domain.ErrBookAvailable)
	})

	t.Run("Success When Out Of Stock", func(t *testing.T) {
		store, svc := newMemoryFixture(t)
		seedBook(t, store, "isbn-2", 0, 1)
		memberID := seedMember(t, store, "r2@example.com")

		res, err := svc.Reserve(ctx, "isbn-2", memberID)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusActive, res.Status)

		// One active reservation per member per book.
		_, err = svc.Reserve(ctx, "isbn-2", memberID)
		assert.ErrorIs(t, err, domain.ErrReservationExists)
	})

	t.Run("Reservation Limit", func(t *testing.T) {
		store, svc := newMemoryFixture(t)
		memberID := seedMember(t, store, "r3@example.com")
		for _, isbn := range []string{"a", "b", "c", "d"} {
			seedBook(t, store, isbn, 0, 1)
		}

		for _, isbn := range []string{"a", "b", "c"} {
			_, err := svc.Reserve(ctx, isbn, memberID)
			assert.NoError(t, err)
		}
		_, err := svc.Reserve(ctx, "d", memberID)
		assert.ErrorIs(t, err, domain.ErrReservationLimitExceeded)
	})
}

func TestCirculationService_BorrowFulfilsReservation(t *testing.T) {
	ctx := context.Background()
	store, svc := newMemoryFixture(t)
	seedBook(t, store, "isbn-3", 0, 1)
	memberID := seedMember(t, store, "r4@example.com")

	res, err := svc.Reserve(ctx, "isbn-3", memberID)
	assert.NoError(t, err)

	// A returned copy frees up stock.
	assert.NoError(t, store.IncrementAvailable(ctx, "isbn-3"))

	_, err = svc.Borrow(ctx, "isbn-3", memberID)
	assert.NoError(t, err)

	got, err := store.GetReservationByID(ctx, res.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusFulfilled, got.Status)
}

func TestCirculationService_CancelReservation(t *testing.T) {
	ctx := context.Background()
	store, svc := newMemoryFixture(t)
	seedBook(t, store, "isbn-4", 0, 1)
	owner := seedMember(t, store, "owner@example.com")
	other := seedMember(t, store, "other@example.com")

	res, err := svc.Reserve(ctx, "isbn-4", owner)
	assert.NoError(t, err)

	_, err = svc.CancelReservation(ctx, res.ID, other)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	cancelled, err := svc.CancelReservation(ctx, res.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, cancelled.Status)

	// Cancelling twice fails.
	_, err = svc.CancelReservation(ctx, res.ID, owner)
	assert.ErrorIs(t, err, domain.ErrReservationNotActive)
}

func TestCirculationService_ExpireReservations(t *testing.T) {
	ctx := context.Background()
	store, svc := newMemoryFixture(t)
	seedBook(t, store, "isbn-5", 0, 1)
	memberID := seedMember(t, store, "stale@example.com")

	stale := &domain.Reservation{
		ISBN:            "isbn-5",
		MemberID:        memberID,
		ReservationDate: time.Now().AddDate(0, 0, -10),
		Status:          domain.ReservationStatusActive,
	}
	assert.NoError(t, store.CreateReservation(ctx, stale))

	fresh := &domain.Reservation{
		ISBN:            "isbn-5",
		MemberID:        seedMember(t, store, "fresh@example.com"),
		ReservationDate: time.Now().AddDate(0, 0, -2),
		Status:          domain.ReservationStatusActive,
	}
	assert.NoError(t, store.CreateReservation(ctx, fresh))

	expired, err := svc.ExpireReservations(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, err := store.GetReservationByID(ctx, stale.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, got.Status)

	got, err = store.GetReservationByID(ctx, fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusActive, got.Status)
}
