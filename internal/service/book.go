package service

import (
	"context"

	"github.com/deppfellow/bookstore/internal/middleware"
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/labstack/echo/v4"
)

// BookStore is the persistence the book service needs. It is satisfied by
// *repository.BookRepository.
type BookStore interface {
	ListAll(ctx context.Context) ([]book.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*book.Book, error)
	Create(ctx context.Context, b book.Book) (*book.Book, error)
	Update(ctx context.Context, isbn string, b book.Book) (*book.Book, error)
	DeleteByISBN(ctx context.Context, isbn string) error
}

type BookService struct {
	server *server.Server
	store  BookStore
}

func NewBookService(s *server.Server, store BookStore) *BookService {
	return &BookService{
		server: s,
		store:  store,
	}
}

func (s *BookService) ListBooks(ctx echo.Context) ([]book.Book, error) {
	logger := middleware.GetLogger(ctx)

	books, err := s.store.ListAll(ctx.Request().Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list books")
		return nil, err
	}

	return books, nil
}

func (s *BookService) GetBook(ctx echo.Context, isbn string) (*book.Book, error) {
	return s.store.GetByISBN(ctx.Request().Context(), isbn)
}

func (s *BookService) CreateBook(ctx echo.Context, payload *book.CreateBookRequest) (*book.Book, error) {
	logger := middleware.GetLogger(ctx)

	created, err := s.store.Create(ctx.Request().Context(), payload.Book)
	if err != nil {
		logger.Error().Err(err).Str("isbn", payload.Book.ISBN).Msg("failed to create book")
		return nil, err
	}

	logger.Info().
		Str("event", "book_created").
		Str("isbn", created.ISBN).
		Str("title", created.Title).
		Msg("Book created successfully")

	return created, nil
}

// UpdateBook replaces the book stored under the path isbn. The key itself
// never changes.
func (s *BookService) UpdateBook(ctx echo.Context, payload *book.UpdateBookRequest) (*book.Book, error) {
	logger := middleware.GetLogger(ctx)

	updated, err := s.store.Update(ctx.Request().Context(), payload.ISBN, payload.Book)
	if err != nil {
		logger.Error().Err(err).Str("isbn", payload.ISBN).Msg("failed to update book")
		return nil, err
	}

	logger.Info().
		Str("event", "book_updated").
		Str("isbn", updated.ISBN).
		Msg("Book updated successfully")

	return updated, nil
}

func (s *BookService) DeleteBook(ctx echo.Context, isbn string) error {
	logger := middleware.GetLogger(ctx)

	if err := s.store.DeleteByISBN(ctx.Request().Context(), isbn); err != nil {
		logger.Error().Err(err).Str("isbn", isbn).Msg("failed to delete book")
		return err
	}

	logger.Info().
		Str("event", "book_deleted").
		Str("isbn", isbn).
		Msg("Book deleted successfully")

	return nil
}
