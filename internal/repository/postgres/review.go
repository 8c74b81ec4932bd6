package postgres

import (
	"context"
	"database/sql"
	"errors"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, isbn, member_id, rating, comment, review_date`

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `INSERT INTO reviews (isbn, member_id, rating, comment, review_date)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, rev.ISBN, rev.MemberID, rev.Rating, rev.Comment, rev.ReviewDate).Scan(&rev.ID)
	if isUniqueViolation(err) {
		return domain.ErrReviewExists
	}
	return err
}

func scanReview(row *sql.Row) (*domain.Review, error) {
	rev := &domain.Review{}
	err := row.Scan(&rev.ID, &rev.ISBN, &rev.MemberID, &rev.Rating, &rev.Comment, &rev.ReviewDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int32) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRowContext(ctx, query, id))
}

func (r *reviewRepository) GetByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE member_id = $1 AND isbn = $2`
	return scanReview(r.db.QueryRowContext(ctx, query, memberID, isbn))
}

func (r *reviewRepository) ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE isbn = $1 ORDER BY review_date DESC`
	return r.queryReviews(ctx, query, isbn)
}

func (r *reviewRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE member_id = $1 ORDER BY review_date DESC`
	return r.queryReviews(ctx, query, memberID)
}

func (r *reviewRepository) Update(ctx context.Context, rev *domain.Review) error {
	query := `UPDATE reviews SET rating=$1, comment=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, rev.Rating, rev.Comment, rev.ID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrReviewNotFound)
}

func (r *reviewRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrReviewNotFound)
}

func (r *reviewRepository) queryReviews(ctx context.Context, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ISBN, &rev.MemberID, &rev.Rating, &rev.Comment, &rev.ReviewDate); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
