package catalog

import (
	"errors"
)

// ErrNotFound is returned when a book or category is not found.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by a store when an insert loses to an existing
// row holding the same unique key.
var ErrDuplicate = errors.New("duplicate key")

// Category groups books under a unique name. Categories are created on
// first use and never mutated afterwards.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is a catalog record. The (title, author) pair is the natural key:
// it is unique across all live books, independent of the numeric ID.
type Book struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Category Category `json:"category"`
}

// Candidate is the caller's proposed book for an add or update. The
// category is named, not resolved; resolution happens inside the mutation.
type Candidate struct {
	Title    string
	Author   string
	Category string
}

// Status tags the outcome of a mutation so the HTTP layer can derive a
// response code from it.
type Status string

const (
	// StatusCreated means the candidate's natural key was unseen and a new
	// record was inserted.
	StatusCreated Status = "CREATED"
	// StatusUpdated means the targeted record was overwritten in place.
	StatusUpdated Status = "UPDATED"
	// StatusFound means a different record already held the candidate's
	// natural key and absorbed the candidate's fields.
	StatusFound Status = "FOUND"
)

// Result is the outcome of Add or Update: what happened, and the ID of the
// record that now holds the candidate's natural key.
type Result struct {
	Status Status `json:"status"`
	ID     int64  `json:"id"`
}
