package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() map[string]any {
	return map[string]any{
		"isbn":       "0691161518",
		"amazon_url": "http://a.co/eobPtX2",
		"author":     "Matthew Lane",
		"language":   "english",
		"pages":      264,
		"publisher":  "Princeton University Press",
		"title":      "Power-Up: Unlocking Hidden Math in Video Games",
		"year":       2017,
	}
}

func envelope(t *testing.T, book map[string]any) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{"book": book})
	require.NoError(t, err)
	return body
}

func fields(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Field)
	}
	return out
}

func TestValidate_ValidBook(t *testing.T) {
	assert.Empty(t, Validate(envelope(t, validBook()), Book))
}

func TestValidate_ExtraFieldsAllowed(t *testing.T) {
	book := validBook()
	book["edition"] = "second"

	assert.Empty(t, Validate(envelope(t, book), Book))
}

func TestValidate_EveryRequiredField(t *testing.T) {
	for field := range validBook() {
		t.Run(field, func(t *testing.T) {
			book := validBook()
			delete(book, field)

			violations := Validate(envelope(t, book), Book)

			require.Len(t, violations, 1)
			assert.Equal(t, "book."+field, violations[0].Field)
			assert.Contains(t, violations[0].Message, field)
		})
	}
}

func TestValidate_WrongTypes(t *testing.T) {
	tests := []struct {
		field string
		value any
	}{
		{"isbn", 12345},
		{"pages", "264"},
		{"year", 2017.5},
		{"title", true},
		{"author", nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			book := validBook()
			book[tt.field] = tt.value

			violations := Validate(envelope(t, book), Book)

			require.Len(t, violations, 1)
			assert.Equal(t, "book."+tt.field, violations[0].Field)
			assert.Contains(t, violations[0].Message, "Invalid type")
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	book := validBook()
	delete(book, "title")
	book["isbn"] = 12345
	book["year"] = "2017"

	violations := Validate(envelope(t, book), Book)

	assert.ElementsMatch(t, []string{"book.title", "book.isbn", "book.year"}, fields(violations))
}

func TestValidate_EmptyISBN(t *testing.T) {
	book := validBook()
	book["isbn"] = ""

	violations := Validate(envelope(t, book), Book)

	assert.Equal(t, []string{"book.isbn"}, fields(violations))
}

func TestValidate_IntegerRanges(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value int64
		valid bool
	}{
		{"pages above int4", "pages", 3000000000, false},
		{"negative pages", "pages", -5, false},
		{"zero pages", "pages", 0, true},
		{"largest pages", "pages", 2147483647, true},
		{"year above int4", "year", 2147483648, false},
		{"year below int4", "year", -2147483649, false},
		{"negative year", "year", -500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := validBook()
			book[tt.field] = tt.value

			violations := Validate(envelope(t, book), Book)

			if tt.valid {
				assert.Empty(t, violations)
				return
			}
			assert.Equal(t, []string{"book." + tt.field}, fields(violations))
		})
	}
}

func TestValidate_MissingEnvelope(t *testing.T) {
	body, err := json.Marshal(validBook())
	require.NoError(t, err)

	violations := Validate(body, Book)

	assert.Equal(t, []string{"book"}, fields(violations))
}

func TestValidate_NotJSON(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("{not json")} {
		violations := Validate(payload, Book)

		require.Len(t, violations, 1)
		assert.Equal(t, RootField, violations[0].Field)
	}
}

func TestValidate_IsPure(t *testing.T) {
	body := envelope(t, validBook())
	original := append([]byte(nil), body...)

	Validate(body, Book)
	Validate(body, Book)

	assert.Equal(t, original, body)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", []byte(`{"type": 12}`))
	assert.Error(t, err)

	assert.Panics(t, func() { MustCompile("broken", []byte(`{`)) })
	assert.Equal(t, "book", Book.Name())
}
