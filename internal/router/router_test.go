package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/bookstore/internal/config"
	"github.com/deppfellow/bookstore/internal/errs"
	"github.com/deppfellow/bookstore/internal/handler"
	"github.com/deppfellow/bookstore/internal/model/book"
	"github.com/deppfellow/bookstore/internal/repository"
	"github.com/deppfellow/bookstore/internal/server"
	"github.com/deppfellow/bookstore/internal/service"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore mimics the books table, including the primary key violation
// PostgreSQL raises on a duplicate isbn.
type memoryStore struct {
	mu     sync.Mutex
	books  map[string]book.Book
	writes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{books: make(map[string]book.Book)}
}

func (m *memoryStore) ListAll(_ context.Context) ([]book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	books := make([]book.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (m *memoryStore) GetByISBN(_ context.Context, isbn string) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[isbn]
	if !ok {
		return nil, repository.NewBookNotFoundError(isbn)
	}
	return &b, nil
}

func (m *memoryStore) Create(_ context.Context, b book.Book) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if _, ok := m.books[b.ISBN]; ok {
		return nil, &pgconn.PgError{
			Code:           "23505",
			Message:        `duplicate key value violates unique constraint "books_pkey"`,
			TableName:      "books",
			ConstraintName: "books_pkey",
		}
	}
	m.books[b.ISBN] = b
	return &b, nil
}

func (m *memoryStore) Update(_ context.Context, isbn string, b book.Book) (*book.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if _, ok := m.books[isbn]; !ok {
		return nil, repository.NewBookNotFoundError(isbn)
	}
	b.ISBN = isbn
	m.books[isbn] = b
	return &b, nil
}

func (m *memoryStore) DeleteByISBN(_ context.Context, isbn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if _, ok := m.books[isbn]; !ok {
		return repository.NewBookNotFoundError(isbn)
	}
	delete(m.books, isbn)
	return nil
}

func (m *memoryStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func newTestRouter(t *testing.T) (*echo.Echo, *memoryStore) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.RateLimit.RequestsPerSecond = 0
	logger := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &logger}

	store := newMemoryStore()
	services := &service.Services{Book: service.NewBookService(s, store)}

	return NewRouter(s, handler.NewHandlers(s, services)), store
}

func bookJSON(overrides map[string]any) string {
	b := map[string]any{
		"isbn":       "0691161518",
		"amazon_url": "http://a.co/eobPtX2",
		"author":     "Matthew Lane",
		"language":   "english",
		"pages":      264,
		"publisher":  "Princeton University Press",
		"title":      "Power-Up: Unlocking Hidden Math in Video Games",
		"year":       2017,
	}
	for k, v := range overrides {
		if v == nil {
			delete(b, k)
			continue
		}
		b[k] = v
	}
	body, _ := json.Marshal(map[string]any{"book": b})
	return string(body)
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestBooks_Lifecycle(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodPost, "/books", bookJSON(nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "english", decode[book.BookResponse](t, rec).Book.Language)

	rec = do(e, http.MethodGet, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "english", decode[book.BookResponse](t, rec).Book.Language)

	rec = do(e, http.MethodPut, "/books/0691161518", bookJSON(map[string]any{"language": "french"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[book.BookResponse](t, rec).Book
	assert.Equal(t, "french", updated.Language)
	assert.Equal(t, "0691161518", updated.ISBN)

	rec = do(e, http.MethodDelete, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Book deleted"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/books/0691161518", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBooks_CreateThenGetRoundTrips(t *testing.T) {
	e, _ := newTestRouter(t)

	created := do(e, http.MethodPost, "/books", bookJSON(nil))
	require.Equal(t, http.StatusCreated, created.Code)

	got := do(e, http.MethodGet, "/books/0691161518", "")
	require.Equal(t, http.StatusOK, got.Code)

	assert.Equal(t, decode[book.BookResponse](t, created).Book, decode[book.BookResponse](t, got).Book)
}

func TestBooks_List(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"books":[]}`, rec.Body.String())

	do(e, http.MethodPost, "/books", bookJSON(nil))
	do(e, http.MethodPost, "/books", bookJSON(map[string]any{"isbn": "0262033844", "title": "Introduction to Algorithms"}))

	rec = do(e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	books := decode[book.BooksResponse](t, rec).Books
	require.Len(t, books, 2)
	assert.Equal(t, "Introduction to Algorithms", books[0].Title)
}

func TestBooks_UnknownISBN(t *testing.T) {
	e, store := newTestRouter(t)

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, bookJSON(map[string]any{"isbn": "0000000000"})},
		{http.MethodDelete, ""},
	} {
		t.Run(tc.method, func(t *testing.T) {
			rec := do(e, tc.method, "/books/0000000000", tc.body)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			body := decode[errs.HTTPError](t, rec)
			assert.Equal(t, "BOOK_NOT_FOUND", body.Code)
			assert.Equal(t, "There is no book with an isbn '0000000000'", body.Message)
		})
	}
	assert.Equal(t, 2, store.writeCount())
}

func TestBooks_LongISBN(t *testing.T) {
	e, _ := newTestRouter(t)
	isbn := strings.Repeat("9", 33)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method+" absent", func(t *testing.T) {
			rec := do(e, method, "/books/"+isbn, "")

			assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			assert.Equal(t, "BOOK_NOT_FOUND", decode[errs.HTTPError](t, rec).Code)
		})
	}

	rec := do(e, http.MethodPost, "/books", bookJSON(map[string]any{"isbn": isbn}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/books/"+isbn, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, isbn, decode[book.BookResponse](t, rec).Book.ISBN)
}

func TestBooks_InvalidPayloadNeverReachesStore(t *testing.T) {
	e, store := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/books", bookJSON(nil)).Code)
	writes := store.writeCount()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"create missing title", http.MethodPost, "/books", bookJSON(map[string]any{"title": nil, "isbn": "1"}), "book.title"},
		{"create numeric isbn", http.MethodPost, "/books", bookJSON(map[string]any{"isbn": 691161518}), "book.isbn"},
		{"create string pages", http.MethodPost, "/books", bookJSON(map[string]any{"isbn": "1", "pages": "264"}), "book.pages"},
		{"create pages above int4", http.MethodPost, "/books", bookJSON(map[string]any{"isbn": "1", "pages": 3000000000}), "book.pages"},
		{"create negative pages", http.MethodPost, "/books", bookJSON(map[string]any{"isbn": "1", "pages": -1}), "book.pages"},
		{"create fractional pages", http.MethodPost, "/books", strings.Replace(bookJSON(map[string]any{"isbn": "1"}), `"pages":264`, `"pages":264.5`, 1), "book.pages"},
		{"create float pages", http.MethodPost, "/books", strings.Replace(bookJSON(map[string]any{"isbn": "1"}), `"pages":264`, `"pages":264.0`, 1), "book.pages"},
		{"create without envelope", http.MethodPost, "/books", `{"isbn":"1"}`, "book"},
		{"create malformed", http.MethodPost, "/books", `{"book":`, "(root)"},
		{"update missing year", http.MethodPut, "/books/0691161518", bookJSON(map[string]any{"year": nil}), "book.year"},
		{"update isbn mismatch", http.MethodPut, "/books/0691161518", bookJSON(map[string]any{"isbn": "1"}), "book.isbn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[errs.HTTPError](t, rec)
			require.NotEmpty(t, body.Errors)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	assert.Equal(t, writes, store.writeCount())
}

func TestBooks_CreateDuplicate(t *testing.T) {
	e, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/books", bookJSON(nil)).Code)

	rec := do(e, http.MethodPost, "/books", bookJSON(nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, "BOOK_ALREADY_EXISTS", body.Code)
	assert.True(t, body.Override)
}

func TestRouter_UnknownRoute(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/authors", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[errs.HTTPError](t, rec).Code)
}

func TestRouter_SetsRequestID(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/books", "")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_ServesEmbeddedDocs(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(e, http.MethodGet, "/static/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi"`)
}
