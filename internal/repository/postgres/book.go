package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `isbn, title, publication_year, publisher, language, page_count, description, available_copies, total_copies, created_on, updated_on`

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (isbn, title, publication_year, publisher, language, page_count, description, available_copies, total_copies, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, b.ISBN, b.Title, b.PublicationYear, b.Publisher, b.Language, b.PageCount, b.Description, b.AvailableCopies, b.TotalCopies, time.Now(), time.Now())
	return err
}

func scanBook(row *sql.Row) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ISBN, &b.Title, &b.PublicationYear, &b.Publisher, &b.Language, &b.PageCount, &b.Description, &b.AvailableCopies, &b.TotalCopies, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`
	return scanBook(r.db.QueryRowContext(ctx, query, isbn))
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY title`
	return r.queryBooks(ctx, query)
}

func (r *bookRepository) Search(ctx context.Context, q string) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
	          WHERE title ILIKE '%' || $1 || '%' OR publisher ILIKE '%' || $1 || '%' OR isbn = $1
	          ORDER BY title`
	return r.queryBooks(ctx, query, q)
}

func (r *bookRepository) queryBooks(ctx context.Context, query string, args ...interface{}) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ISBN, &b.Title, &b.PublicationYear, &b.Publisher, &b.Language, &b.PageCount, &b.Description, &b.AvailableCopies, &b.TotalCopies, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title=$1, publication_year=$2, publisher=$3, language=$4, page_count=$5, description=$6, available_copies=$7, total_copies=$8, updated_on=$9 WHERE isbn=$10`
	res, err := r.db.ExecContext(ctx, query, b.Title, b.PublicationYear, b.Publisher, b.Language, b.PageCount, b.Description, b.AvailableCopies, b.TotalCopies, time.Now(), b.ISBN)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrBookNotFound)
}

func (r *bookRepository) Delete(ctx context.Context, isbn string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrBookNotFound)
}

// DecrementAvailable is the per-ISBN atomic counter update: the WHERE
// clause makes two concurrent borrows of the last copy resolve to one
// winner at the database, no read-modify-write involved.
func (r *bookRepository) DecrementAvailable(ctx context.Context, isbn string) error {
	query := `UPDATE books SET available_copies = available_copies - 1, updated_on = $2
	          WHERE isbn = $1 AND available_copies > 0`
	res, err := r.db.ExecContext(ctx, query, isbn, time.Now())
	if err != nil {
		return err
	}
	if err := requireRow(res, domain.ErrOutOfStock); err != nil {
		// Distinguish a missing book from an exhausted one.
		if _, getErr := r.GetByISBN(ctx, isbn); getErr != nil {
			return getErr
		}
		return err
	}
	return nil
}

func (r *bookRepository) IncrementAvailable(ctx context.Context, isbn string) error {
	query := `UPDATE books SET available_copies = available_copies + 1, updated_on = $2
	          WHERE isbn = $1 AND available_copies < total_copies`
	res, err := r.db.ExecContext(ctx, query, isbn, time.Now())
	if err != nil {
		return err
	}
	if err := requireRow(res, domain.ErrInventoryFull); err != nil {
		if _, getErr := r.GetByISBN(ctx, isbn); getErr != nil {
			return getErr
		}
		return err
	}
	return nil
}

func (r *bookRepository) CreateAuthor(ctx context.Context, a *domain.Author) error {
	query := `INSERT INTO authors (name, bio) VALUES ($1, $2) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.Name, a.Bio).Scan(&a.ID)
}

func (r *bookRepository) GetAuthor(ctx context.Context, id int32) (*domain.Author, error) {
	a := &domain.Author{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name, bio FROM authors WHERE id = $1`, id).Scan(&a.ID, &a.Name, &a.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *bookRepository) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, bio FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *bookRepository) CreateGenre(ctx context.Context, g *domain.Genre) error {
	query := `INSERT INTO genres (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, query, g.Name).Scan(&g.ID)
}

func (r *bookRepository) GetGenre(ctx context.Context, id int32) (*domain.Genre, error) {
	g := &domain.Genre{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *bookRepository) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (r *bookRepository) LinkAuthor(ctx context.Context, isbn string, authorID int32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO book_authors (isbn, author_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, isbn, authorID)
	return err
}

func (r *bookRepository) LinkGenre(ctx context.Context, isbn string, genreID int32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO book_genres (isbn, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, isbn, genreID)
	return err
}

func (r *bookRepository) ListBookAuthors(ctx context.Context, isbn string) ([]domain.Author, error) {
	query := `SELECT a.id, a.name, a.bio FROM authors a
	          JOIN book_authors ba ON ba.author_id = a.id WHERE ba.isbn = $1 ORDER BY a.name`
	rows, err := r.db.QueryContext(ctx, query, isbn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (r *bookRepository) ListBookGenres(ctx context.Context, isbn string) ([]domain.Genre, error) {
	query := `SELECT g.id, g.name FROM genres g
	          JOIN book_genres bg ON bg.genre_id = g.id WHERE bg.isbn = $1 ORDER BY g.name`
	rows, err := r.db.QueryContext(ctx, query, isbn)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// requireRow maps an update that matched nothing to the given domain error.
func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
