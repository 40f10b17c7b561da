package main

import (
	"bookshelf/pkg/database"
	"bookshelf/pkg/store"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

type config struct {
	host           string
	port           int
	storeDriver    string
	sqliteDSN      string
	rateLimitRPS   float64
	rateLimitBurst int
}

func loadConfig() config {
	return config{
		host:           getEnv("HOST", ""),
		port:           getEnvInt("PORT", 9000),
		storeDriver:    getEnv("STORE_DRIVER", "memory"),
		sqliteDSN:      getEnv("SQLITE_DSN", database.DefaultSQLiteDSN),
		rateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 0),
		rateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func main() {
	log.Println("Starting bookshelf service...")

	cfg := loadConfig()

	var err error
	books, err = openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.storeDriver, err)
	}
	log.Printf("Using %s book store", cfg.storeDriver)

	stop := make(chan struct{})
	server := gin.Default()
	if cfg.rateLimitRPS > 0 {
		limiter := newRateLimiter(cfg.rateLimitRPS, cfg.rateLimitBurst)
		go limiter.run(stop)
		server.Use(limiter.middleware())
		log.Printf("Rate limiting at %.2f req/s, burst %d", cfg.rateLimitRPS, cfg.rateLimitBurst)
	}
	registerRoutes(server)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.host, cfg.port),
		Handler:      server,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		log.Printf("Shutting down server (%s)", s)
		close(stop)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	log.Printf("Bookshelf service starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}

func openStore(cfg config) (store.Store, error) {
	switch cfg.storeDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		db, err := database.OpenSQLite(cfg.sqliteDSN)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.storeDriver)
	}
}

func registerRoutes(server *gin.Engine) {
	server.POST("/books", addBook)
	server.GET("/books", getBooks)
	server.GET("/books/:bookId", getBook)
	server.PUT("/books/:bookId", updateBook)
	server.DELETE("/books/:bookId", deleteBook)
	server.GET("/manage/health", healthCheck)
	server.NoRoute(func(c *gin.Context) {
		respond(c, http.StatusNotFound, statusFail, "route not found", nil)
	})
}

func healthCheck(ctx *gin.Context) {
	if err := books.Ping(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Book store ping failed",
			"error":   err.Error(),
		})
		return
	}
	count, err := books.Len(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Book store count failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"books":  count,
	})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return i
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}
