package service

import (
	"context"

	"library-backend/internal/repository"
)

type inventoryService struct {
	bookRepo repository.BookRepository
}

func NewInventoryService(bookRepo repository.BookRepository) InventoryService {
	return &inventoryService{bookRepo: bookRepo}
}

func (s *inventoryService) Decrement(ctx context.Context, isbn string) error {
	return s.bookRepo.DecrementAvailable(ctx, isbn)
}

func (s *inventoryService) Increment(ctx context.Context, isbn string) error {
	return s.bookRepo.IncrementAvailable(ctx, isbn)
}

func (s *inventoryService) Availability(ctx context.Context, isbn string) (int32, error) {
	book, err := s.bookRepo.GetByISBN(ctx, isbn)
	if err != nil {
		return 0, err
	}
	return book.AvailableCopies, nil
}
