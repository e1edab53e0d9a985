// Package handler is the first layer after the router.
//
// It binds and validates requests through the validation package, calls
// the service layer and writes the JSON response.
package handler

import (
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/deppfellow/bookstore/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Book    *BookHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Book:    NewBookHandler(s, services.Book),
	}
}
