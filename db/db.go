// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/pos-backoffice/auth"
	"github.com/danielhkuo/pos-backoffice/cliparse"
	"github.com/danielhkuo/pos-backoffice/models"
)

// Open connects to the configured database, sizes the pool, and pings it.
func Open(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	driver, err := driverName(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DatabaseURL
	if cfg.DatabaseType == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", cfg.DatabaseType, err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.DatabaseType == DialectSQLite && strings.Contains(cfg.DatabaseURL, ":memory:") {
		// Each connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging %s: %w", cfg.DatabaseType, err)
	}
	return conn, nil
}

func driverName(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dialect)
	}
}

// TimestampLayout is the stored form of order_date and created_at: the wall
// clock with no zone, so DATE(col) is the calendar day the time was recorded
// in on both dialects. SQLite would otherwise shift offset-carrying values to
// UTC before taking the date.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp renders t for a timestamp column using t's own wall clock.
// Callers pass times in the store's business location (time.Local in
// production).
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// sqliteDSN makes the driver write any time.Time bound directly in a layout
// SQLite's DATE() understands.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_time_format=sqlite"
}

// SeedAdmin inserts the singleton admin row when the table is empty and
// credentials are configured. Password and PIN are stored as bcrypt hashes.
func SeedAdmin(ctx context.Context, db *sql.DB, cfg cliparse.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" || cfg.AdminPIN == "" {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin").Scan(&count); err != nil {
		return fmt.Errorf("counting admin rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	passwordHash, err := auth.HashSecret(cfg.AdminPassword)
	if err != nil {
		return err
	}
	pinHash, err := auth.HashSecret(cfg.AdminPIN)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admin (id, full_name, username, password, pin, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, models.AdminID, cfg.AdminFullName, cfg.AdminUsername, passwordHash, pinHash, "admin")
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	slog.Info("admin account seeded", "username", cfg.AdminUsername)
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
	}
	return false
}
