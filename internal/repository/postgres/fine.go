package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type fineRepository struct {
	db *sql.DB
}

func NewFineRepository(db *sql.DB) repository.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `id, transaction_id, amount_cents, issued_date, payment_date, status, reason`

// Create relies on the unique index on transaction_id so that two
// concurrent accrual scans cannot double-charge a transaction.
func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	query := `INSERT INTO fines (transaction_id, amount_cents, issued_date, payment_date, status, reason)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (transaction_id) DO NOTHING
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query, f.TransactionID, f.AmountCents, f.IssuedDate, f.PaymentDate, f.Status, f.Reason).Scan(&f.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrFineExists
	}
	return err
}

func scanFine(row *sql.Row) (*domain.Fine, error) {
	f := &domain.Fine{}
	err := row.Scan(&f.ID, &f.TransactionID, &f.AmountCents, &f.IssuedDate, &f.PaymentDate, &f.Status, &f.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFineNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`
	return scanFine(r.db.QueryRowContext(ctx, query, id))
}

func (r *fineRepository) GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE transaction_id = $1`
	return scanFine(r.db.QueryRowContext(ctx, query, transactionID))
}

func (r *fineRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	query := `SELECT f.id, f.transaction_id, f.amount_cents, f.issued_date, f.payment_date, f.status, f.reason
	          FROM fines f JOIN transactions t ON t.id = f.transaction_id
	          WHERE t.member_id = $1 ORDER BY f.issued_date DESC`
	return r.queryFines(ctx, query, memberID)
}

func (r *fineRepository) ListUnpaidByMember(ctx context.Context, memberID int32) ([]domain.Fine, error) {
	query := `SELECT f.id, f.transaction_id, f.amount_cents, f.issued_date, f.payment_date, f.status, f.reason
	          FROM fines f JOIN transactions t ON t.id = f.transaction_id
	          WHERE t.member_id = $1 AND f.status = 'UNPAID' ORDER BY f.issued_date DESC`
	return r.queryFines(ctx, query, memberID)
}

func (r *fineRepository) ListAll(ctx context.Context) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines ORDER BY issued_date DESC`
	return r.queryFines(ctx, query)
}

// MarkPaid guards the transition in the UPDATE itself so two concurrent
// payment attempts cannot both commit.
func (r *fineRepository) MarkPaid(ctx context.Context, fineID int32, paidAt time.Time) error {
	query := `UPDATE fines SET status=$1, payment_date=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, domain.FineStatusPaid, paidAt, fineID, domain.FineStatusUnpaid)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, fineID); err != nil {
			return err
		}
		return domain.ErrFineAlreadyPaid
	}
	return nil
}

func (r *fineRepository) queryFines(ctx context.Context, query string, args ...interface{}) ([]domain.Fine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []domain.Fine
	for rows.Next() {
		var f domain.Fine
		if err := rows.Scan(&f.ID, &f.TransactionID, &f.AmountCents, &f.IssuedDate, &f.PaymentDate, &f.Status, &f.Reason); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, rows.Err()
}
