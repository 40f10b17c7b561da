package main

import (
	"bookshelf/pkg/models"
	"bookshelf/pkg/store"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

var (
	books store.Store
	now   = func() time.Time { return time.Now().UTC() }
)

// respond writes the {status, message, data} envelope. Empty message and nil
// data are left out.
func respond(c *gin.Context, code int, status, message string, data gin.H) {
	body := gin.H{"status": status}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

// validatePayload returns the first rule the payload breaks, or "".
func validatePayload(p models.BookPayload) string {
	if p.Name == nil {
		return "name is required"
	}
	if p.ReadPage > p.PageCount {
		return "readPage may not exceed pageCount"
	}
	return ""
}

func addBook(c *gin.Context) {
	var payload models.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, http.StatusBadRequest, statusFail, "failed to add book: invalid request body", nil)
		return
	}
	if msg := validatePayload(payload); msg != "" {
		respond(c, http.StatusBadRequest, statusFail, "failed to add book: "+msg, nil)
		return
	}

	insertedAt := now()
	book := models.Book{
		ID:         uuid.New().String(),
		InsertedAt: insertedAt,
		UpdatedAt:  insertedAt,
	}
	payload.Apply(&book)

	ctx := c.Request.Context()
	if err := books.Append(ctx, book); err != nil {
		log.Printf("Failed to add book %s: %v", book.ID, err)
		respond(c, http.StatusInternalServerError, statusError, "failed to add book", nil)
		return
	}

	stored, err := books.Filter(ctx, store.Filter{ID: book.ID})
	if err != nil || len(stored) != 1 {
		log.Printf("Book %s not stored exactly once (found %d, err: %v)", book.ID, len(stored), err)
		respond(c, http.StatusInternalServerError, statusError, "failed to add book", nil)
		return
	}

	respond(c, http.StatusCreated, statusSuccess, "book added", gin.H{"bookId": book.ID})
}

func getBooks(c *gin.Context) {
	filter := store.Filter{
		Name:     c.Query("name"),
		Reading:  parseBoolQuery(c, "reading"),
		Finished: parseBoolQuery(c, "finished"),
	}

	found, err := books.Filter(c.Request.Context(), filter)
	if err != nil {
		log.Printf("Failed to list books: %v", err)
		respond(c, http.StatusInternalServerError, statusError, "failed to list books", nil)
		return
	}

	items := make([]models.BookSummary, len(found))
	for i, book := range found {
		items[i] = book.Summarize()
	}
	respond(c, http.StatusOK, statusSuccess, "", gin.H{"books": items})
}

// parseBoolQuery returns nil when key is absent or not a recognised boolean,
// so the filter is skipped rather than matching nothing.
func parseBoolQuery(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func getBook(c *gin.Context) {
	bookId := c.Param("bookId")

	book, err := books.Find(c.Request.Context(), bookId)
	if errors.Is(err, store.ErrNotFound) {
		respond(c, http.StatusNotFound, statusFail, "book not found", nil)
		return
	}
	if err != nil {
		log.Printf("Failed to get book %s: %v", bookId, err)
		respond(c, http.StatusInternalServerError, statusError, "failed to get book", nil)
		return
	}

	respond(c, http.StatusOK, statusSuccess, "", gin.H{"book": book})
}

func updateBook(c *gin.Context) {
	bookId := c.Param("bookId")

	var payload models.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respond(c, http.StatusBadRequest, statusFail, "failed to update book: invalid request body", nil)
		return
	}
	if msg := validatePayload(payload); msg != "" {
		respond(c, http.StatusBadRequest, statusFail, "failed to update book: "+msg, nil)
		return
	}

	ctx := c.Request.Context()
	book, err := books.Find(ctx, bookId)
	if err == nil {
		payload.Apply(&book)
		book.UpdatedAt = now()
		err = books.Replace(ctx, book)
	}
	if errors.Is(err, store.ErrNotFound) {
		respond(c, http.StatusNotFound, statusFail, "failed to update book: id not found", nil)
		return
	}
	if err != nil {
		log.Printf("Failed to update book %s: %v", bookId, err)
		respond(c, http.StatusInternalServerError, statusError, "failed to update book", nil)
		return
	}

	respond(c, http.StatusOK, statusSuccess, "book updated", nil)
}

func deleteBook(c *gin.Context) {
	bookId := c.Param("bookId")

	err := books.Remove(c.Request.Context(), bookId)
	if errors.Is(err, store.ErrNotFound) {
		respond(c, http.StatusNotFound, statusFail, "failed to delete book: id not found", nil)
		return
	}
	if err != nil {
		log.Printf("Failed to delete book %s: %v", bookId, err)
		respond(c, http.StatusInternalServerError, statusError, "failed to delete book", nil)
		return
	}

	respond(c, http.StatusOK, statusSuccess, "book deleted", nil)
}
