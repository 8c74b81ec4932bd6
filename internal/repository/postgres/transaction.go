package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, isbn, member_id, transaction_date, due_date, status, return_date`

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (isbn, member_id, transaction_date, due_date, status, return_date)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, t.ISBN, t.MemberID, t.TransactionDate, t.DueDate, t.Status, t.ReturnDate).Scan(&t.ID)
}

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.ISBN, &t.MemberID, &t.TransactionDate, &t.DueDate, &t.Status, &t.ReturnDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id))
}

func (r *transactionRepository) GetActiveByMemberAndISBN(ctx context.Context, memberID int32, isbn string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE member_id = $1 AND isbn = $2 AND status IN ('ACTIVE', 'OVERDUE') AND return_date IS NULL
	          ORDER BY transaction_date DESC LIMIT 1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, memberID, isbn))
}

func (r *transactionRepository) ListByMember(ctx context.Context, memberID int32) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE member_id = $1 ORDER BY transaction_date DESC`
	return r.queryTransactions(ctx, query, memberID)
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date DESC`
	return r.queryTransactions(ctx, query)
}

func (r *transactionRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE due_date < $1 AND (return_date IS NULL OR return_date > due_date)
	          ORDER BY due_date`
	return r.queryTransactions(ctx, query, cutoff)
}

func (r *transactionRepository) CountOutstandingByMember(ctx context.Context, memberID int32) (int32, error) {
	query := `SELECT count(*) FROM transactions
	          WHERE member_id = $1 AND status IN ('ACTIVE', 'OVERDUE') AND return_date IS NULL`
	var count int32
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(&count)
	return count, err
}

func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions SET status=$1, due_date=$2, return_date=$3 WHERE id=$4`
	res, err := r.db.ExecContext(ctx, query, t.Status, t.DueDate, t.ReturnDate, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrTransactionNotFound)
}

func (r *transactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.ISBN, &t.MemberID, &t.TransactionDate, &t.DueDate, &t.Status, &t.ReturnDate); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
