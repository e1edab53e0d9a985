// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/bookstore/internal/repository"
	"github.com/deppfellow/bookstore/internal/server"
)

type Services struct {
	Book *BookService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Book: NewBookService(s, repos.Book),
	}, nil
}
