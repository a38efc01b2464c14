package book

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no book matches the given ISBN.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateISBN is returned when the store's unique constraint rejects an insert.
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
)

const coverURLTemplate = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"

// Book is a catalog record. Location is the only field that changes after insert.
type Book struct {
	ID            int64
	Title         string
	ISBN          string
	Location      string
	Author        string
	Summary       string
	Pages         int
	Language      string
	PublishedDate string
	CoverURL      string
	CreatedAt     time.Time
}

// Metadata is what the lookup provider knows about an ISBN, defaults already applied.
type Metadata struct {
	Title         string
	Authors       string
	PublishedDate string
	Description   string
	PageCount     int
	Language      string
	Thumbnail     string
}

// Query filters a listing. An empty Search returns every record.
type Query struct {
	Search string
}

// CoverURL builds the Open Library cover link for the ISBN exactly as the
// client submitted it.
func CoverURL(rawISBN string) string {
	return fmt.Sprintf(coverURLTemplate, rawISBN)
}

// Entry is the JSON shape served by the entries API.
type Entry struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ISBN          string `json:"isbn"`
	Location      string `json:"location"`
	Author        string `json:"author"`
	Summary       string `json:"summary"`
	Pages         int    `json:"pages"`
	Language      string `json:"language"`
	PublishedDate string `json:"publishedDate"`
	ImageURL      string `json:"imageUrl"`
}

// ToEntry maps a stored record to its transport shape.
func ToEntry(b Book) Entry {
	return Entry{
		ID:            b.ID,
		Name:          b.Title,
		ISBN:          b.ISBN,
		Location:      b.Location,
		Author:        b.Author,
		Summary:       b.Summary,
		Pages:         b.Pages,
		Language:      b.Language,
		PublishedDate: b.PublishedDate,
		ImageURL:      b.CoverURL,
	}
}
