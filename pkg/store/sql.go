package store

import (
	"bookshelf/pkg/models"
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SQLStore keeps books in a gorm database, ordered by the seq column.
type SQLStore struct {
	db  *gorm.DB
	seq int64
	mu  sync.Mutex
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&models.Book{}); err != nil {
		return nil, fmt.Errorf("migrate books: %w", err)
	}
	s := &SQLStore{db: db}
	err := db.Model(&models.Book{}).Select("COALESCE(MAX(seq), 0)").Row().Scan(&s.seq)
	if err != nil {
		return nil, fmt.Errorf("read book sequence: %w", err)
	}
	return s, nil
}

func (s *SQLStore) Append(ctx context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", book.ID).Count(&count).Error
	if err != nil {
		return fmt.Errorf("check book id: %w", err)
	}
	if count > 0 {
		return ErrDuplicateID
	}

	book.Seq = s.seq + 1
	if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	s.seq = book.Seq
	return nil
}

func (s *SQLStore) Find(ctx context.Context, id string) (models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Book{}, ErrNotFound
	}
	if err != nil {
		return models.Book{}, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

func (s *SQLStore) Replace(ctx context.Context, book models.Book) error {
	res := s.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", book.ID).Updates(map[string]interface{}{
		"name":        book.Name,
		"year":        book.Year,
		"author":      book.Author,
		"summary":     book.Summary,
		"publisher":   book.Publisher,
		"page_count":  book.PageCount,
		"read_page":   book.ReadPage,
		"finished":    book.Finished,
		"reading":     book.Reading,
		"inserted_at": book.InsertedAt,
		"updated_at":  book.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Book{})
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Filter narrows by id and flags in SQL; the name match runs in Go so both
// stores agree on case folding.
func (s *SQLStore) Filter(ctx context.Context, filter Filter) ([]models.Book, error) {
	query := s.db.WithContext(ctx).Model(&models.Book{}).Order("seq")
	if filter.ID != "" {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Reading != nil {
		query = query.Where("reading = ?", *filter.Reading)
	}
	if filter.Finished != nil {
		query = query.Where("finished = ?", *filter.Finished)
	}

	var books []models.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := make([]models.Book, 0, len(books))
	for _, book := range books {
		if filter.matchName(book.Name) {
			result = append(result, book)
		}
	}
	return result, nil
}

func (s *SQLStore) Len(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Book{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return int(count), nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
