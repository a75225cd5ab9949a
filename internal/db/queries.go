package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hpungsan/indotrip/internal/errors"
	"github.com/hpungsan/indotrip/internal/trip"
)

// SaveTrips upserts every trip in a single transaction. Either all rows are
// written or none are.
func SaveTrips(ctx context.Context, db *sql.DB, trips []*trip.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (id, name, days, data_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			days = excluded.days,
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer stmt.Close()

	for _, t := range trips {
		data, err := json.Marshal(t)
		if err != nil {
			return errors.NewInternal(fmt.Errorf("encode trip %s: %w", t.ID, err))
		}
		_, err = stmt.ExecContext(ctx,
			t.ID, t.Name, t.Days, string(data),
			t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli(),
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// LoadAll returns every stored trip, most recently updated first.
func LoadAll(ctx context.Context, db *sql.DB) ([]*trip.Trip, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, data_json FROM trips ORDER BY updated_at DESC, id ASC")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var trips []*trip.Trip
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, errors.NewInternal(err)
		}
		t, err := decodeTrip(id, data)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return trips, nil
}

// Count returns the number of stored trips.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// LastUpdated returns the newest updated_at across all trips, or the zero time
// when there are none.
func LastUpdated(ctx context.Context, db *sql.DB) (time.Time, error) {
	var ms sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(updated_at) FROM trips").Scan(&ms); err != nil {
		return time.Time{}, errors.NewInternal(err)
	}
	if !ms.Valid {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms.Int64).UTC(), nil
}

func decodeTrip(id, data string) (*trip.Trip, error) {
	var t trip.Trip
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("decode trip %s: %w", id, err))
	}
	if t.Proposals == nil {
		t.Proposals = []trip.Proposal{}
	}
	if t.Members == nil {
		t.Members = []trip.Member{}
	}
	return &t, nil
}
