package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cardsynch/internal/platform/config"
)

func New(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.Path
	if !strings.Contains(dsn, "?") {
		dsn += "?cache=shared&mode=rwc&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
// The slug/handle allocators use this as a re-probe trigger.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
