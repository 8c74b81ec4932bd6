package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"library-backend/internal/domain"
)

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) List(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) Search(ctx context.Context, query string) ([]domain.Book, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, b *domain.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}
func (m *MockBookRepo) DecrementAvailable(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}
func (m *MockBookRepo) IncrementAvailable(ctx context.Context, isbn string) error {
	args := m.Called(ctx, isbn)
	return args.Error(0)
}
func (m *MockBookRepo) CreateAuthor(ctx context.Context, a *domain.Author) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockBookRepo) GetAuthor(ctx context.Context, id int32) (*domain.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Author), args.Error(1)
}
func (m *MockBookRepo) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Author), args.Error(1)
}
func (m *MockBookRepo) CreateGenre(ctx context.Context, g *domain.Genre) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}
func (m *MockBookRepo) GetGenre(ctx context.Context, id int32) (*domain.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Genre), args.Error(1)
}
func (m *MockBookRepo) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Genre), args.Error(1)
}
func (m *MockBookRepo) LinkAuthor(ctx context.Context, isbn string, authorID int32) error {
	args := m.Called(ctx, isbn, authorID)
	return args.Error(0)
}
func (m *MockBookRepo) LinkGenre(ctx context.Context, isbn string, genreID int32) error {
	args := m.Called(ctx, isbn, genreID)
	return args.Error(0)
}
func (m *MockBookRepo) ListBookAuthors(ctx context.Context, isbn string) ([]domain.Author, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).([]domain.Author), args.Error(1)
}
func (m *MockBookRepo) ListBookGenres(ctx context.Context, isbn string) ([]domain.Genre, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).([]domain.Genre), args.Error(1)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMemberRepo) AddPhone(ctx context.Context, memberID int32, phone string) error {
	args := m.Called(ctx, memberID, phone)
	return args.Error(0)
}
func (m *MockMemberRepo) RemovePhone(ctx context.Context, memberID int32, phone string) error {
	args := m.Called(ctx, memberID, phone)
	return args.Error(0)
}
func (m *MockMemberRepo) ListPhones(ctx context.Context, memberID int32) ([]string, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]string), args.Error(1)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Transaction, error) {
	args := m.Called(ctx, memberID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) CountOutstandingByMember(ctx context.Context, memberID int32) (int32, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) Update(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Reservation, error) {
	args := m.Called(ctx, memberID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) CountActiveByMember(ctx context.Context, memberID int32) (int32, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReservationRepo) CountActiveByISBN(ctx context.Context, isbn string) (int32, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReservationRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListActiveBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, f *domain.Fine) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Fine, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListUnpaidByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListAll(ctx context.Context) ([]domain.Fine, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) MarkPaid(ctx context.Context, fineID int32, paidAt time.Time) error {
	args := m.Called(ctx, fineID, paidAt)
	return args.Error(0)
}

// MockReviewRepo
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReviewRepo) GetByID(ctx context.Context, id int32) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) GetByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Review, error) {
	args := m.Called(ctx, memberID, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Review, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockReviewRepo) Update(ctx context.Context, r *domain.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReviewRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueNotice(ctx context.Context, email, name, bookTitle string, daysOverdue int64) error {
	args := m.Called(ctx, email, name, bookTitle, daysOverdue)
	return args.Error(0)
}
func (m *MockEmailService) SendFineIssuedNotice(ctx context.Context, email, name, bookTitle string, amountCents int64) error {
	args := m.Called(ctx, email, name, bookTitle, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendFinePaidReceipt(ctx context.Context, email, name string, amountCents int64) error {
	args := m.Called(ctx, email, name, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendReservationCancelledNotice(ctx context.Context, email, name, bookTitle, reason string) error {
	args := m.Called(ctx, email, name, bookTitle, reason)
	return args.Error(0)
}
