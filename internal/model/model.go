// Package model holds the domain types shared by the repository, service
// and handler layers, together with the request and response payloads of
// each resource.
package model
