package service

import (
	"context"

	"library-backend/internal/domain"
)

// InventoryService owns the available-copies counter. Nothing else in
// the codebase mutates it.
type InventoryService interface {
	Decrement(ctx context.Context, isbn string) error
	Increment(ctx context.Context, isbn string) error
	Availability(ctx context.Context, isbn string) (int32, error)
}

type CirculationService interface {
	Borrow(ctx context.Context, isbn string, memberID int32) (*domain.Transaction, error)
	Return(ctx context.Context, isbn string, memberID int32) (*domain.Transaction, error)
	Reserve(ctx context.Context, isbn string, memberID int32) (*domain.Reservation, error)
	// CancelReservation enforces ownership when memberID is non-zero;
	// operators pass zero to cancel on a member's behalf.
	CancelReservation(ctx context.Context, reservationID, memberID int32) (*domain.Reservation, error)
	ListMemberTransactions(ctx context.Context, memberID int32) ([]domain.Transaction, error)
	ListMemberReservations(ctx context.Context, memberID int32) ([]domain.Reservation, error)
	ListAllTransactions(ctx context.Context) ([]domain.Transaction, error)
	ListAllReservations(ctx context.Context) ([]domain.Reservation, error)
	ExpireReservations(ctx context.Context) (int, error)
}

type FineService interface {
	// RunAccrualScan issues at most one fine per overdue transaction and
	// returns how many new fines it created. Safe to run repeatedly.
	RunAccrualScan(ctx context.Context) (int, error)
	// AssessTransaction applies the accrual rule to a single transaction,
	// invoked by Return so late returns are charged immediately.
	AssessTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Fine, error)
	IssueFine(ctx context.Context, transactionID int32, amountCents int64, reason string) (*domain.Fine, error)
	PayFine(ctx context.Context, fineID, memberID int32) (*domain.Fine, error)
	GetFine(ctx context.Context, fineID int32) (*domain.Fine, error)
	ListMemberFines(ctx context.Context, memberID int32) ([]domain.Fine, error)
	ListUnpaidMemberFines(ctx context.Context, memberID int32) ([]domain.Fine, error)
	ListAllFines(ctx context.Context) ([]domain.Fine, error)
}

type CatalogService interface {
	AddBook(ctx context.Context, book *domain.Book, authorIDs, genreIDs []int32) error
	GetBook(ctx context.Context, isbn string) (*domain.Book, []domain.Author, []domain.Genre, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	SearchBooks(ctx context.Context, query string) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, isbn string) error
	AddAuthor(ctx context.Context, author *domain.Author) error
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	AddGenre(ctx context.Context, genre *domain.Genre) error
	ListGenres(ctx context.Context) ([]domain.Genre, error)
}

type MemberService interface {
	Register(ctx context.Context, name, email, address, password string, phones []string) (*domain.Member, error)
	GetMember(ctx context.Context, id int32) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	UpdateContact(ctx context.Context, id int32, name, email, address string) (*domain.Member, error)
	AddPhone(ctx context.Context, memberID int32, phone string) error
	RemovePhone(ctx context.Context, memberID int32, phone string) error
	Deactivate(ctx context.Context, id int32) error
}

type ReviewService interface {
	AddReview(ctx context.Context, memberID int32, isbn string, rating int, comment string) (*domain.Review, error)
	UpdateReview(ctx context.Context, reviewID, memberID int32, rating int, comment string) (*domain.Review, error)
	DeleteReview(ctx context.Context, reviewID, memberID int32) error
	ListBookReviews(ctx context.Context, isbn string) ([]domain.Review, error)
	ListMemberReviews(ctx context.Context, memberID int32) ([]domain.Review, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (access, refresh string, member *domain.Member, err error)
	RefreshToken(ctx context.Context, refreshToken string) (access, refresh string, err error)
}

type EmailService interface {
	SendOverdueNotice(ctx context.Context, email, name, bookTitle string, daysOverdue int64) error
	SendFineIssuedNotice(ctx context.Context, email, name, bookTitle string, amountCents int64) error
	SendFinePaidReceipt(ctx context.Context, email, name string, amountCents int64) error
	SendReservationCancelledNotice(ctx context.Context, email, name, bookTitle, reason string) error
}
