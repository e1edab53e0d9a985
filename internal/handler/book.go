package handler

import (
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/deppfellow/bookstore/internal/service"
	"github.com/labstack/echo/v4"
)

type BookHandler struct {
	Handler
	bookService *service.BookService
}

func NewBookHandler(s *server.Server, bookService *service.BookService) *BookHandler {
	return &BookHandler{
		Handler:     NewHandler(s),
		bookService: bookService,
	}
}

func (h *BookHandler) ListBooks(c echo.Context, _ *book.ListBooksRequest) (*book.BooksResponse, error) {
	books, err := h.bookService.ListBooks(c)
	if err != nil {
		return nil, err
	}
	return &book.BooksResponse{Books: books}, nil
}

func (h *BookHandler) GetBook(c echo.Context, req *book.GetBookRequest) (*book.BookResponse, error) {
	b, err := h.bookService.GetBook(c, req.ISBN)
	if err != nil {
		return nil, err
	}
	return &book.BookResponse{Book: b}, nil
}

func (h *BookHandler) CreateBook(c echo.Context, req *book.CreateBookRequest) (*book.BookResponse, error) {
	b, err := h.bookService.CreateBook(c, req)
	if err != nil {
		return nil, err
	}
	return &book.BookResponse{Book: b}, nil
}

func (h *BookHandler) UpdateBook(c echo.Context, req *book.UpdateBookRequest) (*book.BookResponse, error) {
	b, err := h.bookService.UpdateBook(c, req)
	if err != nil {
		return nil, err
	}
	return &book.BookResponse{Book: b}, nil
}

func (h *BookHandler) DeleteBook(c echo.Context, req *book.DeleteBookRequest) (*book.MessageResponse, error) {
	if err := h.bookService.DeleteBook(c, req.ISBN); err != nil {
		return nil, err
	}
	return &book.MessageResponse{Message: book.DeletedMessage}, nil
}
