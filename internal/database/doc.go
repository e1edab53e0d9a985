// Package database establishes connections to PostgreSQL.
//
// It builds the DSN for the current execution mode, creates the pgx
// connection pool with query tracing wired to the logger (and New Relic
// when enabled), and applies the embedded schema migrations.
package database
