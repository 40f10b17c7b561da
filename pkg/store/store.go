// Package store holds the ordered collection of book records.
package store

import (
	"bookshelf/pkg/models"
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("book not found")
	ErrDuplicateID = errors.New("book id already exists")
)

// Store is an ordered collection of books. Iteration order is insertion
// order; Replace keeps a record at its position and Remove shifts the
// records after it.
type Store interface {
	Append(ctx context.Context, book models.Book) error
	Find(ctx context.Context, id string) (models.Book, error)
	Replace(ctx context.Context, book models.Book) error
	Remove(ctx context.Context, id string) error
	Filter(ctx context.Context, filter Filter) ([]models.Book, error)
	Len(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Filter selects books. Zero-valued fields impose no constraint; the
// others are ANDed.
type Filter struct {
	ID       string
	Name     string // case-insensitive substring
	Reading  *bool
	Finished *bool
}

func (f Filter) Match(b models.Book) bool {
	if f.ID != "" && b.ID != f.ID {
		return false
	}
	if !f.matchName(b.Name) {
		return false
	}
	if f.Reading != nil && b.Reading != *f.Reading {
		return false
	}
	if f.Finished != nil && b.Finished != *f.Finished {
		return false
	}
	return true
}

func (f Filter) matchName(name string) bool {
	if f.Name == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Name))
}
