package models

import (
	"time"
)

type Book struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Seq        int64     `json:"-" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Finished   bool      `json:"finished"`
	Reading    bool      `json:"reading"`
	InsertedAt time.Time `json:"insertedAt" gorm:"not null"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime:false"`
}

// BookPayload is the client-supplied part of a book. Name is a pointer so an
// absent name can be told apart from an empty one.
type BookPayload struct {
	Name      *string `json:"name"`
	Year      int     `json:"year"`
	Author    string  `json:"author"`
	Summary   string  `json:"summary"`
	Publisher string  `json:"publisher"`
	PageCount int     `json:"pageCount"`
	ReadPage  int     `json:"readPage"`
	Reading   bool    `json:"reading"`
}

// Apply copies the payload onto b and recomputes the derived fields.
// ID, InsertedAt and UpdatedAt are left to the caller.
func (p BookPayload) Apply(b *Book) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	b.Year = p.Year
	b.Author = p.Author
	b.Summary = p.Summary
	b.Publisher = p.Publisher
	b.PageCount = p.PageCount
	b.ReadPage = p.ReadPage
	b.Reading = p.Reading
	b.Finished = p.ReadPage == p.PageCount
}

// BookSummary is the list projection of a book.
type BookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

func (b Book) Summarize() BookSummary {
	return BookSummary{
		ID:        b.ID,
		Name:      b.Name,
		Publisher: b.Publisher,
	}
}
