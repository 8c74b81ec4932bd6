package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, name, email, address, role, password_hash, registration_date, is_active`

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (name, email, address, role, password_hash, registration_date, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Email, m.Address, m.Role, m.PasswordHash, m.RegistrationDate, m.IsActive).Scan(&m.ID)
	if isUniqueViolation(err) {
		return domain.ErrEmailExists
	}
	return err
}

func (r *memberRepository) scanMember(ctx context.Context, row *sql.Row) (*domain.Member, error) {
	m := &domain.Member{}
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Address, &m.Role, &m.PasswordHash, &m.RegistrationDate, &m.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	phones, err := r.ListPhones(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Phones = phones
	return m, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return r.scanMember(ctx, r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	return r.scanMember(ctx, r.db.QueryRowContext(ctx, query, email))
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Address, &m.Role, &m.PasswordHash, &m.RegistrationDate, &m.IsActive); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `UPDATE members SET name=$1, email=$2, address=$3, role=$4, password_hash=$5, is_active=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Email, m.Address, m.Role, m.PasswordHash, m.IsActive, m.ID)
	if isUniqueViolation(err) {
		return domain.ErrEmailExists
	}
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrMemberNotFound)
}

func (r *memberRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrMemberNotFound)
}

func (r *memberRepository) AddPhone(ctx context.Context, memberID int32, phone string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO member_phones (member_id, phone) VALUES ($1, $2) ON CONFLICT DO NOTHING`, memberID, phone)
	return err
}

func (r *memberRepository) RemovePhone(ctx context.Context, memberID int32, phone string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM member_phones WHERE member_id = $1 AND phone = $2`, memberID, phone)
	return err
}

func (r *memberRepository) ListPhones(ctx context.Context, memberID int32) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT phone FROM member_phones WHERE member_id = $1 ORDER BY phone`, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
