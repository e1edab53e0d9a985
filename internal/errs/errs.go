// Package errs defines the error types returned to API clients.
//
// Every failure leaves the service in the same JSON shape: a
// machine-readable code, a human message, the HTTP status and, for
// validation failures, one entry per offending field.
package errs
