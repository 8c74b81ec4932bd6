package repository

import (
	"context"
	"time"

	"library-backend/internal/domain"
)

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, isbn string) error

	// Availability counter. Both are conditional atomic updates: decrement
	// fails with domain.ErrOutOfStock at zero, increment with
	// domain.ErrInventoryFull at the total-owned ceiling.
	DecrementAvailable(ctx context.Context, isbn string) error
	IncrementAvailable(ctx context.Context, isbn string) error

	// Authors and genres
	CreateAuthor(ctx context.Context, author *domain.Author) error
	GetAuthor(ctx context.Context, id int32) (*domain.Author, error)
	ListAuthors(ctx context.Context) ([]domain.Author, error)
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	GetGenre(ctx context.Context, id int32) (*domain.Genre, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	LinkAuthor(ctx context.Context, isbn string, authorID int32) error
	LinkGenre(ctx context.Context, isbn string, genreID int32) error
	ListBookAuthors(ctx context.Context, isbn string) ([]domain.Author, error)
	ListBookGenres(ctx context.Context, isbn string) ([]domain.Genre, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id int32) error
	AddPhone(ctx context.Context, memberID int32, phone string) error
	RemovePhone(ctx context.Context, memberID int32, phone string) error
	ListPhones(ctx context.Context, memberID int32) ([]string, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Transaction, error)
	ListByMember(ctx context.Context, memberID int32) ([]domain.Transaction, error)
	ListAll(ctx context.Context) ([]domain.Transaction, error)
	// ListDueBefore feeds the accrual scan: open or overdue
	// transactions plus late returns whose due date precedes the cutoff.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error)
	CountOutstandingByMember(ctx context.Context, memberID int32) (int32, error)
	Update(ctx context.Context, tx *domain.Transaction) error
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Reservation, error)
	CountActiveByMember(ctx context.Context, memberID int32) (int32, error)
	CountActiveByISBN(ctx context.Context, isbn string) (int32, error)
	ListByMember(ctx context.Context, memberID int32) ([]domain.Reservation, error)
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	ListActiveBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) error
}

type FineRepository interface {
	// Create fails with domain.ErrFineExists when a fine already exists
	// for the transaction; the store enforces uniqueness, callers must
	// not rely on a prior existence check.
	Create(ctx context.Context, fine *domain.Fine) error
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)
	GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Fine, error)
	ListByMember(ctx context.Context, memberID int32) ([]domain.Fine, error)
	ListUnpaidByMember(ctx context.Context, memberID int32) ([]domain.Fine, error)
	ListAll(ctx context.Context) ([]domain.Fine, error)
	// MarkPaid transitions a fine from UNPAID to PAID. The store applies
	// the transition conditionally so that of two concurrent payment
	// attempts exactly one succeeds; the loser gets
	// domain.ErrFineAlreadyPaid.
	MarkPaid(ctx context.Context, fineID int32, paidAt time.Time) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id int32) (*domain.Review, error)
	GetByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Review, error)
	ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error)
	ListByMember(ctx context.Context, memberID int32) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int32) error
}
