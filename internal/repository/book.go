package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/bookstore/internal/errs"
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pkgerrors "github.com/pkg/errors"
)

const bookColumns = `isbn, amazon_url, author, language, pages, publisher, title, year`

var bookNotFoundCode = "BOOK_NOT_FOUND"

// BookRepository reads and writes the books table.
type BookRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBookRepository(db *pgxpool.Pool, timeout time.Duration) *BookRepository {
	return &BookRepository{db: db, timeout: timeout}
}

func (r *BookRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// ListAll returns every book ordered by title.
func (r *BookRepository) ListAll(ctx context.Context) ([]book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title, isbn`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list books")
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[book.Book])
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to collect books")
	}

	return books, nil
}

// GetByISBN returns the book stored under isbn.
func (r *BookRepository) GetByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get book %s", isbn)
	}

	return collectBook(rows, isbn)
}

// Create inserts b. A duplicate isbn surfaces as the PostgreSQL unique
// violation and is classified by sqlerr.
func (r *BookRepository) Create(ctx context.Context, b book.Book) (*book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookColumns,
		b.ISBN, b.AmazonURL, b.Author, b.Language, b.Pages, b.Publisher, b.Title, b.Year,
	)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create book %s", b.ISBN)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[book.Book])
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create book %s", b.ISBN)
	}

	return &created, nil
}

// Update replaces every non-key column of the book stored under isbn.
func (r *BookRepository) Update(ctx context.Context, isbn string, b book.Book) (*book.Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		UPDATE books
		SET amazon_url = $2, author = $3, language = $4, pages = $5,
		    publisher = $6, title = $7, year = $8
		WHERE isbn = $1
		RETURNING `+bookColumns,
		isbn, b.AmazonURL, b.Author, b.Language, b.Pages, b.Publisher, b.Title, b.Year,
	)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to update book %s", isbn)
	}

	return collectBook(rows, isbn)
}

// DeleteByISBN removes the book stored under isbn.
func (r *BookRepository) DeleteByISBN(ctx context.Context, isbn string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var deleted string
	err := r.db.QueryRow(ctx, `DELETE FROM books WHERE isbn = $1 RETURNING isbn`, isbn).Scan(&deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewBookNotFoundError(isbn)
	}
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to delete book %s", isbn)
	}

	return nil
}

func collectBook(rows pgx.Rows, isbn string) (*book.Book, error) {
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[book.Book])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NewBookNotFoundError(isbn)
	}
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read book %s", isbn)
	}

	return &b, nil
}

// NewBookNotFoundError is the 404 returned for an unknown isbn.
func NewBookNotFoundError(isbn string) *errs.HTTPError {
	return errs.NewNotFoundError(
		fmt.Sprintf("There is no book with an isbn '%s'", isbn),
		true,
		&bookNotFoundCode,
	)
}
