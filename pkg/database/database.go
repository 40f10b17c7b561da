package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultSQLiteDSN = ":memory:"

// OpenSQLite opens an in-process SQLite database and migrates the given models.
// The pool is pinned to a single connection that is never recycled: every
// connection to ":memory:" is a separate database.
func OpenSQLite(dsn string, models ...interface{}) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	log.Printf("Opening sqlite database: %s", dsn)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	log.Println("Database connection established successfully")
	return db, nil
}
