package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jcalvinowens/planeyeller/internal/announce"
)

// SightingRecord is one stored announcement.
type SightingRecord struct {
	ID           int64
	ICAO         string
	Callsign     string
	Squawk       int
	Emergency    bool
	BearingDeg   float64
	ElevationDeg float64
	DistanceFt   float64
	Announcement string
	AnnouncedAt  time.Time
}

// SightingRepository handles database operations for the sighting log.
type SightingRepository struct {
	db *DB
}

// NewSightingRepository creates a new sighting repository.
func NewSightingRepository(db *DB) *SightingRepository {
	return &SightingRepository{db: db}
}

// Record stores one announced sighting.
func (r *SightingRepository) Record(ctx context.Context, s announce.Sighting) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sightings (
			icao, callsign, squawk, emergency,
			bearing_deg, elevation_deg, distance_ft,
			announcement, announced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ICAO, s.Callsign, s.Squawk, s.Emergency,
		s.Vector.Bearing, s.Vector.Elevation, s.Vector.Distance,
		s.Text, s.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sighting: %w", err)
	}
	return nil
}

// Recent returns the newest sightings, most recent first.
func (r *SightingRepository) Recent(ctx context.Context, limit int) ([]SightingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, icao, callsign, squawk, emergency,
		        bearing_deg, elevation_deg, distance_ft,
		        announcement, announced_at
		 FROM sightings
		 ORDER BY announced_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings: %w", err)
	}
	defer rows.Close()

	var out []SightingRecord
	for rows.Next() {
		var rec SightingRecord
		err := rows.Scan(&rec.ID, &rec.ICAO, &rec.Callsign, &rec.Squawk,
			&rec.Emergency, &rec.BearingDeg, &rec.ElevationDeg,
			&rec.DistanceFt, &rec.Announcement, &rec.AnnouncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// History returns every sighting of one aircraft, oldest first.
func (r *SightingRepository) History(ctx context.Context, icao string) ([]SightingRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, icao, callsign, squawk, emergency,
		        bearing_deg, elevation_deg, distance_ft,
		        announcement, announced_at
		 FROM sightings
		 WHERE icao = $1
		 ORDER BY announced_at`,
		icao,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings for %s: %w", icao, err)
	}
	defer rows.Close()

	var out []SightingRecord
	for rows.Next() {
		var rec SightingRecord
		err := rows.Scan(&rec.ID, &rec.ICAO, &rec.Callsign, &rec.Squawk,
			&rec.Emergency, &rec.BearingDeg, &rec.ElevationDeg,
			&rec.DistanceFt, &rec.Announcement, &rec.AnnouncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
