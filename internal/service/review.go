package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		now:        time.Now,
	}
}

func (s *reviewService) AddReview(ctx context.Context, memberID int32, isbn string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	if _, err := s.bookRepo.GetByISBN(ctx, isbn); err != nil {
		return nil, err
	}

	existing, err := s.reviewRepo.GetByMemberAndISBN(ctx, memberID, isbn)
	if err != nil && !errors.Is(err, domain.ErrReviewNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrReviewExists
	}

	review := &domain.Review{
		ISBN:       isbn,
		MemberID:   memberID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID, memberID int32, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.MemberID != memberID {
		return nil, domain.ErrUnauthorized
	}

	review.Rating = rating
	review.Comment = comment
	review.ReviewDate = s.now()
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID, memberID int32) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if memberID != 0 && review.MemberID != memberID {
		return domain.ErrUnauthorized
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *reviewService) ListBookReviews(ctx context.Context, isbn string) ([]domain.Review, error) {
	if _, err := s.bookRepo.GetByISBN(ctx, isbn); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByISBN(ctx, isbn)
}

func (s *reviewService) ListMemberReviews(ctx context.Context, memberID int32) ([]domain.Review, error) {
	return s.reviewRepo.ListByMember(ctx, memberID)
}
