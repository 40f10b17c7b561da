package store

import (
	"bookshelf/pkg/models"
	"context"
	"sync"
)

type MemoryStore struct {
	books []models.Book
	index map[string]int
	seq   int64
	mu    sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books: make([]models.Book, 0),
		index: make(map[string]int),
	}
}

func (s *MemoryStore) Append(_ context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[book.ID]; ok {
		return ErrDuplicateID
	}
	s.seq++
	book.Seq = s.seq
	s.index[book.ID] = len(s.books)
	s.books = append(s.books, book)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id string) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findIndex(id)
	if i < 0 {
		return models.Book{}, ErrNotFound
	}
	return s.books[i], nil
}

func (s *MemoryStore) Replace(_ context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(book.ID)
	if i < 0 {
		return ErrNotFound
	}
	s.replaceAt(i, book)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.removeAt(i)
	return nil
}

func (s *MemoryStore) Filter(_ context.Context, filter Filter) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Book, 0)
	for _, book := range s.books {
		if filter.Match(book) {
			result = append(result, book)
		}
	}
	return result, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// findIndex returns the position of id, or -1. Callers hold mu.
func (s *MemoryStore) findIndex(id string) int {
	i, ok := s.index[id]
	if !ok {
		return -1
	}
	return i
}

func (s *MemoryStore) replaceAt(i int, book models.Book) {
	book.Seq = s.books[i].Seq
	s.books[i] = book
}

func (s *MemoryStore) removeAt(i int) {
	delete(s.index, s.books[i].ID)
	s.books = append(s.books[:i], s.books[i+1:]...)
	for j := i; j < len(s.books); j++ {
		s.index[s.books[j].ID] = j
	}
}
