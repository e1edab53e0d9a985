// Package book defines the book resource.
package book

// Book is a row of the books table. ISBN is the primary key; every other
// field can be replaced by an update.
type Book struct {
	ISBN      string `json:"isbn" db:"isbn" validate:"required"`
	AmazonURL string `json:"amazon_url" db:"amazon_url"`
	Author    string `json:"author" db:"author"`
	Language  string `json:"language" db:"language"`
	Pages     int    `json:"pages" db:"pages"`
	Publisher string `json:"publisher" db:"publisher"`
	Title     string `json:"title" db:"title"`
	Year      int    `json:"year" db:"year"`
}
