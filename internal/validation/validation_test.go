package validation_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/bookstore/internal/errs"
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/deppfellow/bookstore/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{"book":{"isbn":"0691161518","amazon_url":"http://a.co/eobPtX2","author":"Matthew Lane",` +
	`"language":"english","pages":264,"publisher":"Princeton University Press",` +
	`"title":"Power-Up: Unlocking Hidden Math in Video Games","year":2017}}`

func newContext(method, body string, isbn string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, "/books", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	if isbn != "" {
		c.SetParamNames("isbn")
		c.SetParamValues(isbn)
	}
	return c
}

func requireBadRequest(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr
}

func fields(httpErr *errs.HTTPError) []string {
	out := make([]string, 0, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func TestBindAndValidate_Create(t *testing.T) {
	req := &book.CreateBookRequest{}

	err := validation.BindAndValidate(newContext(http.MethodPost, validBody, ""), req)

	require.NoError(t, err)
	assert.Equal(t, "0691161518", req.Book.ISBN)
	assert.Equal(t, 264, req.Book.Pages)
	assert.Equal(t, 2017, req.Book.Year)
}

func TestBindAndValidate_SchemaRunsBeforeBind(t *testing.T) {
	body := strings.Replace(validBody, `"isbn":"0691161518"`, `"isbn":691161518`, 1)
	body = strings.Replace(body, `"author":"Matthew Lane",`, "", 1)

	err := validation.BindAndValidate(newContext(http.MethodPost, body, ""), &book.CreateBookRequest{})

	httpErr := requireBadRequest(t, err)
	assert.True(t, httpErr.Override)
	assert.ElementsMatch(t, []string{"book.isbn", "book.author"}, fields(httpErr))
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	err := validation.BindAndValidate(newContext(http.MethodPost, `{"book":`, ""), &book.CreateBookRequest{})

	httpErr := requireBadRequest(t, err)
	assert.Equal(t, []string{"(root)"}, fields(httpErr))
}

func TestBindAndValidate_NegativePages(t *testing.T) {
	body := strings.Replace(validBody, `"pages":264`, `"pages":-5`, 1)

	err := validation.BindAndValidate(newContext(http.MethodPost, body, ""), &book.CreateBookRequest{})

	httpErr := requireBadRequest(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "book.pages", httpErr.Errors[0].Field)
	assert.Contains(t, httpErr.Errors[0].Error, "0")
}

func TestBindAndValidate_FloatIntegerReportsField(t *testing.T) {
	body := strings.Replace(validBody, `"pages":264`, `"pages":264.0`, 1)

	err := validation.BindAndValidate(newContext(http.MethodPost, body, ""), &book.CreateBookRequest{})

	httpErr := requireBadRequest(t, err)
	assert.True(t, httpErr.Override)
	assert.Equal(t, "Validation failed", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "book.pages", httpErr.Errors[0].Field)
	assert.Equal(t, "must be an integer", httpErr.Errors[0].Error)
	assert.NotContains(t, httpErr.Message, "offset")
}

func TestBindAndValidate_StructRules(t *testing.T) {
	err := validation.BindAndValidate(newContext(http.MethodGet, "", ""), &book.GetBookRequest{})

	httpErr := requireBadRequest(t, err)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "isbn", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestBindAndValidate_UpdateBindsPathKey(t *testing.T) {
	req := &book.UpdateBookRequest{}

	err := validation.BindAndValidate(newContext(http.MethodPut, validBody, "0691161518"), req)

	require.NoError(t, err)
	assert.Equal(t, "0691161518", req.ISBN)
	assert.Equal(t, "english", req.Book.Language)
}

func TestBindAndValidate_UpdateKeyMismatch(t *testing.T) {
	err := validation.BindAndValidate(newContext(http.MethodPut, validBody, "1234567890"), &book.UpdateBookRequest{})

	httpErr := requireBadRequest(t, err)
	assert.Equal(t, []string{"book.isbn"}, fields(httpErr))
}

func TestBindAndValidate_PathOnly(t *testing.T) {
	req := &book.GetBookRequest{}

	err := validation.BindAndValidate(newContext(http.MethodGet, "", "0691161518"), req)

	require.NoError(t, err)
	assert.Equal(t, "0691161518", req.ISBN)
}

func TestNew_ReportsJSONNames(t *testing.T) {
	type payload struct {
		AmazonURL string `json:"amazon_url" validate:"required"`
		ID        string `param:"id" validate:"required"`
	}

	err := validation.New().Struct(payload{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "amazon_url")
	assert.Contains(t, err.Error(), "'id'")
}
