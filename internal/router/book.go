package router

import (
	"net/http"

	"github.com/deppfellow/bookstore/internal/handler"
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/labstack/echo/v4"
)

func registerBookRoutes(r *echo.Echo, h *handler.Handlers) {
	books := r.Group("/books")

	books.GET("", handler.Handle(
		h.Book.Handler,
		h.Book.ListBooks,
		http.StatusOK,
		&book.ListBooksRequest{},
	))

	books.POST("", handler.Handle(
		h.Book.Handler,
		h.Book.CreateBook,
		http.StatusCreated,
		&book.CreateBookRequest{},
	))

	books.GET("/:isbn", handler.Handle(
		h.Book.Handler,
		h.Book.GetBook,
		http.StatusOK,
		&book.GetBookRequest{},
	))

	books.PUT("/:isbn", handler.Handle(
		h.Book.Handler,
		h.Book.UpdateBook,
		http.StatusOK,
		&book.UpdateBookRequest{},
	))

	books.DELETE("/:isbn", handler.Handle(
		h.Book.Handler,
		h.Book.DeleteBook,
		http.StatusOK,
		&book.DeleteBookRequest{},
	))
}
