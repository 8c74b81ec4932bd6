package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"library-backend/internal/domain"
	"library-backend/internal/repository/memory"
	"library-backend/internal/service"
)

func newCatalogFixture(t *testing.T) (*memory.Store, service.CatalogService) {
	t.Helper()
	store := memory.NewStore()
	svc := service.NewCatalogService(store.Books(), store.Reservations())
	return store, svc
}

func TestCatalogService_AddBook(t *testing.T) {
	ctx := context.Background()
	store, svc := newCatalogFixture(t)

	t.Run("Defaults Available To Total", func(t *testing.T) {
		book := &domain.Book{ISBN: "isbn-1", Title: "Title", TotalCopies: 3}
		assert.NoError(t, svc.AddBook(ctx, book, nil, nil))
		assert.Equal(t, int32(3), book.AvailableCopies)

		stored, err := store.GetByISBN(ctx, "isbn-1")
		assert.NoError(t, err)
		assert.Equal(t, int32(3), stored.AvailableCopies)
	})

	t.Run("Missing ISBN", func(t *testing.T) {
		err := svc.AddBook(ctx, &domain.Book{Title: "No ISBN"}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("Available Above Total", func(t *testing.T) {
		err := svc.AddBook(ctx, &domain.Book{ISBN: "isbn-bad", Title: "Bad", AvailableCopies: 4, TotalCopies: 2}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("Unknown Author", func(t *testing.T) {
		book := &domain.Book{ISBN: "isbn-2", Title: "Title", TotalCopies: 1}
		err := svc.AddBook(ctx, book, []int32{999}, nil)
		assert.Error(t, err)
	})

	t.Run("With Author And Genre", func(t *testing.T) {
		author := &domain.Author{Name: "Donovan"}
		assert.NoError(t, svc.AddAuthor(ctx, author))
		genre := &domain.Genre{Name: "Programming"}
		assert.NoError(t, svc.AddGenre(ctx, genre))

		book := &domain.Book{ISBN: "isbn-3", Title: "Linked", TotalCopies: 1}
		assert.NoError(t, svc.AddBook(ctx, book, []int32{author.ID}, []int32{genre.ID}))

		_, authors, genres, err := svc.GetBook(ctx, "isbn-3")
		assert.NoError(t, err)
		assert.Len(t, authors, 1)
		assert.Len(t, genres, 1)
	})
}

func TestCatalogService_UpdateBookPreservesLoanedCopies(t *testing.T) {
	ctx := context.Background()
	store, svc := newCatalogFixture(t)
	// 2 of 5 copies are out on loan.
	seedBook(t, store, "isbn-u", 3, 5)

	updated := &domain.Book{ISBN: "isbn-u", Title: "Retitled", TotalCopies: 4}
	assert.NoError(t, svc.UpdateBook(ctx, updated))
	assert.Equal(t, int32(2), updated.AvailableCopies)

	stored, err := store.GetByISBN(ctx, "isbn-u")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), stored.AvailableCopies)
	assert.Equal(t, int32(4), stored.TotalCopies)

	// Total cannot drop below the copies still out.
	shrunk := &domain.Book{ISBN: "isbn-u", Title: "Retitled", TotalCopies: 1}
	assert.Error(t, svc.UpdateBook(ctx, shrunk))
}

func TestCatalogService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	store, svc := newCatalogFixture(t)

	t.Run("Refused While Copies On Loan", func(t *testing.T) {
		seedBook(t, store, "isbn-loaned", 1, 2)
		err := svc.DeleteBook(ctx, "isbn-loaned")
		assert.ErrorIs(t, err, domain.ErrBookInCirculation)
	})

	t.Run("Refused While Reserved", func(t *testing.T) {
		seedBook(t, store, "isbn-reserved", 2, 2)
		memberID := seedMember(t, store, "holder@example.com")
		assert.NoError(t, store.CreateReservation(ctx, &domain.Reservation{
			ISBN:     "isbn-reserved",
			MemberID: memberID,
			Status:   domain.ReservationStatusActive,
		}))

		err := svc.DeleteBook(ctx, "isbn-reserved")
		assert.ErrorIs(t, err, domain.ErrBookInCirculation)
	})

	t.Run("Success", func(t *testing.T) {
		seedBook(t, store, "isbn-idle", 2, 2)
		assert.NoError(t, svc.DeleteBook(ctx, "isbn-idle"))

		_, err := store.GetByISBN(ctx, "isbn-idle")
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("Unknown Book", func(t *testing.T) {
		err := svc.DeleteBook(ctx, "isbn-ghost")
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestCatalogService_SearchBooks(t *testing.T) {
	ctx := context.Background()
	store, svc := newCatalogFixture(t)
	seedBook(t, store, "isbn-s1", 1, 1)

	t.Run("Blank Query Lists Everything", func(t *testing.T) {
		books, err := svc.SearchBooks(ctx, "   ")
		assert.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("Title Match", func(t *testing.T) {
		books, err := svc.SearchBooks(ctx, "go programming")
		assert.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("No Match", func(t *testing.T) {
		books, err := svc.SearchBooks(ctx, "cooking")
		assert.NoError(t, err)
		assert.Empty(t, books)
	})
}
