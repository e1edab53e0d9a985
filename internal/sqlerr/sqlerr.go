// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes from the PostgreSQL driver and converts them
// into client-facing errors (e.g., a unique violation on books becomes a
// 409 "BOOK_ALREADY_EXISTS").
package sqlerr

import "fmt"

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other              Code = "other"
	NotNullViolation   Code = "not_null_violation"
	UniqueViolation    Code = "unique_violation"
	CheckViolation     Code = "check_violation"
	ExclusionViolation Code = "exclusion_violation"
	TooManyConnections Code = "too_many_connections"
	QueryCanceled      Code = "query_canceled"
	UndefinedTable     Code = "undefined_table"
)

// Severity mirrors PostgreSQL's message severities.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized form of a PostgreSQL error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "53300":
		return TooManyConnections
	case "57014":
		return QueryCanceled
	case "42P01":
		return UndefinedTable
	default:
		return Other
	}
}

// MapSeverity maps PostgreSQL's severity string to a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
