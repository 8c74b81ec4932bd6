package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type catalogService struct {
	bookRepo        repository.BookRepository
	reservationRepo repository.ReservationRepository
}

func NewCatalogService(
	bookRepo repository.BookRepository,
	reservationRepo repository.ReservationRepository,
) CatalogService {
	return &catalogService{
		bookRepo:        bookRepo,
		reservationRepo: reservationRepo,
	}
}

func (s *catalogService) AddBook(ctx context.Context, book *domain.Book, authorIDs, genreIDs []int32) error {
	book.ISBN = strings.TrimSpace(book.ISBN)
	if book.ISBN == "" {
		return fmt.Errorf("isbn is required")
	}
	if book.Title == "" {
		return fmt.Errorf("title is required")
	}
	if book.TotalCopies < 0 || book.AvailableCopies < 0 {
		return fmt.Errorf("copy counts must not be negative")
	}
	if book.AvailableCopies > book.TotalCopies {
		return fmt.Errorf("available copies cannot exceed total copies")
	}
	// New stock goes straight onto the shelf unless stated otherwise.
	if book.AvailableCopies == 0 && book.TotalCopies > 0 {
		book.AvailableCopies = book.TotalCopies
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}

	for _, id := range authorIDs {
		if _, err := s.bookRepo.GetAuthor(ctx, id); err != nil {
			return err
		}
		if err := s.bookRepo.LinkAuthor(ctx, book.ISBN, id); err != nil {
			return err
		}
	}
	for _, id := range genreIDs {
		if _, err := s.bookRepo.GetGenre(ctx, id); err != nil {
			return err
		}
		if err := s.bookRepo.LinkGenre(ctx, book.ISBN, id); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "book added to catalog", "isbn", book.ISBN, "title", book.Title)
	return nil
}

func (s *catalogService) GetBook(ctx context.Context, isbn string) (*domain.Book, []domain.Author, []domain.Genre, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, nil, nil, err
	}
	authors, err := s.bookRepo.ListBookAuthors(ctx, isbn)
	if err != nil {
		return nil, nil, nil, err
	}
	genres, err := s.bookRepo.ListBookGenres(ctx, isbn)
	if err != nil {
		return nil, nil, nil, err
	}
	return book, authors, genres, nil
}

func (s *catalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.List(ctx)
}

func (s *catalogService) SearchBooks(ctx context.Context, query string) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.bookRepo.List(ctx)
	}
	return s.bookRepo.Search(ctx, query)
}

// UpdateBook changes descriptive fields and total copies. Available
// copies move only through circulation, so a shrinking total is clamped
// against copies currently out on loan.
func (s *catalogService) UpdateBook(ctx context.Context, book *domain.Book) error {
	current, err := s.bookRepo.GetByISBN(ctx, book.ISBN)
	if err != nil {
		return err
	}

	onLoan := current.TotalCopies - current.AvailableCopies
	if book.TotalCopies < onLoan {
		return fmt.Errorf("cannot reduce total copies below %d copies on loan", onLoan)
	}
	book.AvailableCopies = book.TotalCopies - onLoan

	return s.bookRepo.Update(ctx, book)
}

func (s *catalogService) DeleteBook(ctx context.Context, isbn string) error {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if book.AvailableCopies < book.TotalCopies {
		return domain.ErrBookInCirculation
	}
	reserved, err := s.reservationRepo.CountActiveByISBN(ctx, isbn)
	if err != nil {
		return err
	}
	if reserved > 0 {
		return domain.ErrBookInCirculation
	}

	if err := s.bookRepo.Delete(ctx, isbn); err != nil {
		return err
	}
	logger.InfoContext(ctx, "book removed from catalog", "isbn", isbn)
	return nil
}

func (s *catalogService) AddAuthor(ctx context.Context, author *domain.Author) error {
	if author.Name == "" {
		return errors.New("author name is required")
	}
	return s.bookRepo.CreateAuthor(ctx, author)
}

func (s *catalogService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	return s.bookRepo.ListAuthors(ctx)
}

func (s *catalogService) AddGenre(ctx context.Context, genre *domain.Genre) error {
	if genre.Name == "" {
		return errors.New("genre name is required")
	}
	return s.bookRepo.CreateGenre(ctx, genre)
}

func (s *catalogService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.bookRepo.ListGenres(ctx)
}
