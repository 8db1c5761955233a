// Package db records announced sightings in PostgreSQL. The database
// is an audit log of what was spoken, not tracker state; the run is
// unaffected when it is disabled.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/config"
	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps a database connection with helper methods.
type DB struct {
	*sql.DB
	config config.Database
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(cfg config.Database) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, config: cfg}, nil
}

// InitSchema creates or updates the database schema.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// CleanupOldData deletes sightings older than maxAge. Should be called
// periodically to prevent unbounded growth.
func (db *DB) CleanupOldData(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)

	_, err := db.ExecContext(ctx,
		`DELETE FROM sightings WHERE announced_at < $1`,
		cutoff,
	)
	if err != nil {
		return fmt.Errorf("failed to delete old sightings: %w", err)
	}

	return nil
}

// GetStats returns database statistics.
func (db *DB) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sightings`,
	).Scan(&total)
	if err != nil {
		return nil, err
	}
	stats["sightings"] = total

	var emergencies int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sightings WHERE emergency = TRUE`,
	).Scan(&emergencies)
	if err != nil {
		return nil, err
	}
	stats["emergency_sightings"] = emergencies

	var distinct int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT icao) FROM sightings`,
	).Scan(&distinct)
	if err != nil {
		return nil, err
	}
	stats["distinct_aircraft"] = distinct

	return stats, nil
}
