package book

import (
	"github.com/deppfellow/bookstore/internal/schema"
	"github.com/deppfellow/bookstore/internal/validation"
)

var validate = validation.New()

// DeletedMessage is the confirmation returned by a successful delete.
const DeletedMessage = "Book deleted"

// ------------------------------------------------------------

type ListBooksRequest struct{}

func (r *ListBooksRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

type GetBookRequest struct {
	ISBN string `param:"isbn" validate:"required"`
}

func (r *GetBookRequest) Validate() error {
	return validate.Struct(r)
}

// ------------------------------------------------------------

type CreateBookRequest struct {
	Book Book `json:"book"`
}

func (r *CreateBookRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreateBookRequest) Schema() *schema.Schema {
	return schema.Book
}

// ------------------------------------------------------------

// UpdateBookRequest replaces a book. The key comes from the path; the body
// must repeat it unchanged.
type UpdateBookRequest struct {
	ISBN string `param:"isbn" json:"-" validate:"required"`
	Book Book   `json:"book"`
}

func (r *UpdateBookRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	if r.Book.ISBN != r.ISBN {
		return validation.CustomValidationErrors{
			{Field: "book.isbn", Message: "must match the isbn in the request path"},
		}
	}

	return nil
}

func (r *UpdateBookRequest) Schema() *schema.Schema {
	return schema.Book
}

// ------------------------------------------------------------

type DeleteBookRequest struct {
	ISBN string `param:"isbn" validate:"required"`
}

func (r *DeleteBookRequest) Validate() error {
	return validate.Struct(r)
}

// ------------------------------------------------------------

type BookResponse struct {
	Book *Book `json:"book"`
}

type BooksResponse struct {
	Books []Book `json:"books"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
