// Package validation contains the logic for validating
// request data.
//
// Payloads are checked in two passes. Types that carry a JSON schema
// have the raw body checked against it first, so a missing or mistyped
// field is reported before decoding can coerce it away. Struct tags are
// then enforced with the `validator` library, and both kinds of failure
// come back as one 400 error listing every offending field.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/deppfellow/bookstore/internal/errs"
	"github.com/deppfellow/bookstore/internal/schema"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validator.Struct(req)
// - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// SchemaValidatable is a Validatable whose JSON body must also satisfy a
// JSON schema before it is bound.
type SchemaValidatable interface {
	Validatable
	Schema() *schema.Schema
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) For a SchemaValidatable payload the raw body is checked against its schema.
// 2) c.Bind(payload) populates the request struct from path params and body.
// 3) payload.Validate() applies struct validation rules.
// 4) Returns *errs.HTTPError (400) with field-level errors if any step fails.
//
// c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if withSchema, ok := payload.(SchemaValidatable); ok {
		if err := validateSchema(c, withSchema.Schema()); err != nil {
			return err
		}
	}

	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// validateSchema reads the request body, checks it against s and puts the
// bytes back so Bind can decode them.
func validateSchema(c echo.Context, s *schema.Schema) error {
	req := c.Request()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return errs.NewBadRequestError("Could not read request body", true, nil, nil, nil)
		}
		_ = req.Body.Close()
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	violations := schema.Validate(body, s)
	if len(violations) == 0 {
		return nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(violations))
	for _, v := range violations {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: v.Field, Error: v.Message})
	}
	return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
}

// New returns a validator that reports fields by their JSON names, or by
// their path parameter name for fields bound from the URL.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name, _, _ := strings.Cut(fld.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		if name := fld.Tag.Get("param"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// fieldPath drops the top-level struct name from the error namespace, so
// CreateBookRequest.book.isbn is reported as book.isbn.
func fieldPath(err validator.FieldError) string {
	if _, path, ok := strings.Cut(err.Namespace(), "."); ok {
		return strings.ToLower(path)
	}
	return strings.ToLower(err.Field())
}

// bindError reports a value that decodes into the wrong Go type against its
// field. Anything else keeps the client-facing part of echo's message.
func bindError(err error) *errs.HTTPError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fieldErrors := []errs.FieldError{{
			Field: strings.ToLower(typeErr.Field),
			Error: "must be " + describeKind(typeErr.Type),
		}}
		return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
	}

	return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
}

func describeKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map:
		return "an object"
	default:
		return "a valid " + t.Kind().String()
	}
}

// bindErrorMessage pulls the client-facing part out of echo's bind error.
func bindErrorMessage(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request payload"
}

// validateStruct calls v.Validate() and extracts field errors if validation fails.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: schema.RootField, Error: err.Error()}}
	}

	// Convert validator.ValidationErrors into user-friendly messages.
	for _, err := range validationErrors {
		field := fieldPath(err)
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// strings: minimum length, numbers: minimum value
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "url", "http_url":
			msg = "must be a valid URL"

		case "eqfield":
			msg = fmt.Sprintf("must match %s", strings.ToLower(err.Param()))

		default:
			// Includes tag name and param (if any) to help debugging.
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
