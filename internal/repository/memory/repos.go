package memory

import (
	"context"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

// Per-aggregate views over the shared store, matching the repository
// interfaces the services consume.

func (s *Store) Books() repository.BookRepository               { return bookRepo{s} }
func (s *Store) Members() repository.MemberRepository           { return memberRepo{s} }
func (s *Store) Transactions() repository.TransactionRepository { return transactionRepo{s} }
func (s *Store) Reservations() repository.ReservationRepository { return reservationRepo{s} }
func (s *Store) Fines() repository.FineRepository               { return fineRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository           { return reviewRepo{s} }

type bookRepo struct{ s *Store }

func (r bookRepo) Create(ctx context.Context, b *domain.Book) error { return r.s.Create(ctx, b) }
func (r bookRepo) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return r.s.GetByISBN(ctx, isbn)
}
func (r bookRepo) List(ctx context.Context) ([]domain.Book, error) { return r.s.List(ctx) }
func (r bookRepo) Search(ctx context.Context, q string) ([]domain.Book, error) {
	return r.s.Search(ctx, q)
}
func (r bookRepo) Update(ctx context.Context, b *domain.Book) error { return r.s.Update(ctx, b) }
func (r bookRepo) Delete(ctx context.Context, isbn string) error    { return r.s.Delete(ctx, isbn) }
func (r bookRepo) DecrementAvailable(ctx context.Context, isbn string) error {
	return r.s.DecrementAvailable(ctx, isbn)
}
func (r bookRepo) IncrementAvailable(ctx context.Context, isbn string) error {
	return r.s.IncrementAvailable(ctx, isbn)
}
func (r bookRepo) CreateAuthor(ctx context.Context, a *domain.Author) error {
	return r.s.CreateAuthor(ctx, a)
}
func (r bookRepo) GetAuthor(ctx context.Context, id int32) (*domain.Author, error) {
	return r.s.GetAuthor(ctx, id)
}
func (r bookRepo) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return r.s.ListAuthors(ctx)
}
func (r bookRepo) CreateGenre(ctx context.Context, g *domain.Genre) error {
	return r.s.CreateGenre(ctx, g)
}
func (r bookRepo) GetGenre(ctx context.Context, id int32) (*domain.Genre, error) {
	return r.s.GetGenre(ctx, id)
}
func (r bookRepo) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return r.s.ListGenres(ctx)
}
func (r bookRepo) LinkAuthor(ctx context.Context, isbn string, authorID int32) error {
	return r.s.LinkAuthor(ctx, isbn, authorID)
}
func (r bookRepo) LinkGenre(ctx context.Context, isbn string, genreID int32) error {
	return r.s.LinkGenre(ctx, isbn, genreID)
}
func (r bookRepo) ListBookAuthors(ctx context.Context, isbn string) ([]domain.Author, error) {
	return r.s.ListBookAuthors(ctx, isbn)
}
func (r bookRepo) ListBookGenres(ctx context.Context, isbn string) ([]domain.Genre, error) {
	return r.s.ListBookGenres(ctx, isbn)
}

type memberRepo struct{ s *Store }

func (r memberRepo) Create(ctx context.Context, m *domain.Member) error {
	return r.s.CreateMember(ctx, m)
}
func (r memberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	return r.s.GetMemberByID(ctx, id)
}
func (r memberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.s.GetMemberByEmail(ctx, email)
}
func (r memberRepo) List(ctx context.Context) ([]domain.Member, error) { return r.s.ListMembers(ctx) }
func (r memberRepo) Update(ctx context.Context, m *domain.Member) error {
	return r.s.UpdateMember(ctx, m)
}
func (r memberRepo) Delete(ctx context.Context, id int32) error { return r.s.DeleteMember(ctx, id) }
func (r memberRepo) AddPhone(ctx context.Context, memberID int32, phone string) error {
	return r.s.AddPhone(ctx, memberID, phone)
}
func (r memberRepo) RemovePhone(ctx context.Context, memberID int32, phone string) error {
	return r.s.RemovePhone(ctx, memberID, phone)
}
func (r memberRepo) ListPhones(ctx context.Context, memberID int32) ([]string, error) {
	return r.s.ListPhones(ctx, memberID)
}

type transactionRepo struct{ s *Store }

func (r transactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	return r.s.CreateTransaction(ctx, t)
}
func (r transactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	return r.s.GetTransactionByID(ctx, id)
}
func (r transactionRepo) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Transaction, error) {
	return r.s.GetActiveTransaction(ctx, memberID, isbn)
}
func (r transactionRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Transaction, error) {
	return r.s.ListTransactionsByMember(ctx, memberID)
}
func (r transactionRepo) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	return r.s.ListAllTransactions(ctx)
}
func (r transactionRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error) {
	return r.s.ListTransactionsDueBefore(ctx, cutoff)
}
func (r transactionRepo) CountOutstandingByMember(ctx context.Context, memberID int32) (int32, error) {
	return r.s.CountOutstandingByMember(ctx, memberID)
}
func (r transactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	return r.s.UpdateTransaction(ctx, t)
}

type reservationRepo struct{ s *Store }

func (r reservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	return r.s.CreateReservation(ctx, res)
}
func (r reservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	return r.s.GetReservationByID(ctx, id)
}
func (r reservationRepo) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Reservation, error) {
	return r.s.GetActiveReservation(ctx, memberID, isbn)
}
func (r reservationRepo) CountActiveByMember(ctx context.Context, memberID int32) (int32, error) {
	return r.s.CountActiveReservationsByMember(ctx, memberID)
}
func (r reservationRepo) CountActiveByISBN(ctx context.Context, isbn string) (int32, error) {
	return r.s.CountActiveReservationsByISBN(ctx, isbn)
}
func (r reservationRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Reservation, error) {
	return r.s.ListReservationsByMember(ctx, memberID)
}
func (r reservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	return r.s.ListAllReservations(ctx)
}
func (r reservationRepo) ListActiveBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	return r.s.ListActiveReservationsBefore(ctx, cutoff)
}
func (r reservationRepo) Update(ctx context.Context, res *domain.Reservation) error {
	return r.s.UpdateReservation(ctx, res)
}

type fineRepo struct{ s *Store }

func (r fineRepo) Create(ctx context.Context, f *domain.Fine) error { return r.s.CreateFine(ctx, f) }
func (r fineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	return r.s.GetFineByID(ctx, id)
}
func (r fineRepo) GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Fine, error) {
	return r.s.GetFineByTransactionID(ctx, transactionID)
}
func (r fineRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return r.s.ListFinesByMember(ctx, memberID)
}
func (r fineRepo) ListUnpaidByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	return r.s.ListUnpaidFinesByMember(ctx, memberID)
}
func (r fineRepo) ListAll(ctx context.Context) ([]domain.Fine, error) { return r.s.ListAllFines(ctx) }
func (r fineRepo) MarkPaid(ctx context.Context, fineID int32, paidAt time.Time) error {
	return r.s.MarkFinePaid(ctx, fineID, paidAt)
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, rev *domain.Review) error {
	return r.s.CreateReview(ctx, rev)
}
func (r reviewRepo) GetByID(ctx context.Context, id int32) (*domain.Review, error) {
	return r.s.GetReviewByID(ctx, id)
}
func (r reviewRepo) GetByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Review, error) {
	return r.s.GetReviewByMemberAndISBN(ctx, memberID, isbn)
}
func (r reviewRepo) ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error) {
	return r.s.ListReviewsByISBN(ctx, isbn)
}
func (r reviewRepo) ListByMember(ctx context.Context, memberID int32) ([]domain.Review, error) {
	return r.s.ListReviewsByMember(ctx, memberID)
}
func (r reviewRepo) Update(ctx context.Context, rev *domain.Review) error {
	return r.s.UpdateReview(ctx, rev)
}
func (r reviewRepo) Delete(ctx context.Context, id int32) error { return r.s.DeleteReview(ctx, id) }
