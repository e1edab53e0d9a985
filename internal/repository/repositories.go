// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"time"

	"github.com/deppfellow/bookstore/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Book *BookRepository
}

// NewRepositories builds every repository on the server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	timeout := time.Duration(s.Config.Database.QueryTimeout) * time.Second

	return &Repositories{
		Book: NewBookRepository(s.DB.Pool, timeout),
	}
}
