package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, isbn, member_id, reservation_date, status`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (isbn, member_id, reservation_date, status)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, res.ISBN, res.MemberID, res.ReservationDate, res.Status).Scan(&res.ID)
}

func scanReservation(row *sql.Row) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(&res.ID, &res.ISBN, &res.MemberID, &res.ReservationDate, &res.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *reservationRepository) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE member_id = $1 AND isbn = $2 AND status = 'ACTIVE'
	          ORDER BY reservation_date DESC LIMIT 1`
	return scanReservation(r.db.QueryRowContext(ctx, query, memberID, isbn))
}

func (r *reservationRepository) CountActiveByMember(ctx context.Context, memberID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations WHERE member_id = $1 AND status = 'ACTIVE'`, memberID).Scan(&count)
	return count, err
}

func (r *reservationRepository) CountActiveByISBN(ctx context.Context, isbn string) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations WHERE isbn = $1 AND status = 'ACTIVE'`, isbn).Scan(&count)
	return count, err
}

func (r *reservationRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE member_id = $1 ORDER BY reservation_date DESC`
	return r.queryReservations(ctx, query, memberID)
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY reservation_date DESC`
	return r.queryReservations(ctx, query)
}

func (r *reservationRepository) ListActiveBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = 'ACTIVE' AND reservation_date < $1 ORDER BY reservation_date`
	return r.queryReservations(ctx, query, cutoff)
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	query := `UPDATE reservations SET status=$1 WHERE id=$2`
	result, err := r.db.ExecContext(ctx, query, res.Status, res.ID)
	if err != nil {
		return err
	}
	return requireRow(result, domain.ErrReservationNotFound)
}

func (r *reservationRepository) queryReservations(ctx context.Context, query string, args ...interface{}) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ISBN, &res.MemberID, &res.ReservationDate, &res.Status); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
