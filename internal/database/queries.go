package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAdoption(row scanner) (*Adoption, error) {
	var a Adoption
	var notes, createdAt, updatedAt sql.NullString
	if err := row.Scan(&a.Code, &a.Name, &a.FirstGregorianJDN, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if t := parseTimestamp(createdAt); t != nil {
		a.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		a.UpdatedAt = *t
	}
	return &a, nil
}

// =============================================================================
// Adoption Queries
// =============================================================================

const adoptionColumns = `code, name, first_gregorian_jdn, notes, created_at, updated_at`

// ListAdoptions returns every region ordered by adoption date, then code.
//
// Used for GET /api/v1/regions and `julian regions`.
func (db *DB) ListAdoptions(ctx context.Context) ([]Adoption, error) {
	query := `SELECT ` + adoptionColumns + ` FROM adoptions ORDER BY first_gregorian_jdn, code`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query adoptions: %w", err)
	}
	defer rows.Close()

	var adoptions []Adoption
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adoption row: %w", err)
		}
		adoptions = append(adoptions, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate adoption rows: %w", err)
	}

	return adoptions, nil
}

// GetAdoption retrieves one region by code.
// Returns ErrNotFound if the code is unknown.
func (db *DB) GetAdoption(ctx context.Context, code string) (*Adoption, error) {
	query := `SELECT ` + adoptionColumns + ` FROM adoptions WHERE code = ?`

	a, err := scanAdoption(db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query adoption %q: %w", code, err)
	}
	return a, nil
}

// UpsertAdoption inserts a region or updates the existing one with the same
// code. The stored timestamps are read back into a.
func (db *DB) UpsertAdoption(ctx context.Context, a *Adoption) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return db.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertAdoption(ctx, a)
	})
}

// UpsertAdoption is DB.UpsertAdoption within an open transaction.
// Used by cmd/import to load a whole file atomically.
func (tx *Tx) UpsertAdoption(ctx context.Context, a *Adoption) error {
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO adoptions (code, name, first_gregorian_jdn, notes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			first_gregorian_jdn = excluded.first_gregorian_jdn,
			notes = excluded.notes,
			updated_at = datetime('now')
	`
	if _, err := tx.ExecContext(ctx, query, a.Code, a.Name, a.FirstGregorianJDN, a.Notes); err != nil {
		return fmt.Errorf("upsert adoption %q: %w", a.Code, err)
	}

	stored, err := scanAdoption(tx.QueryRowContext(ctx,
		`SELECT `+adoptionColumns+` FROM adoptions WHERE code = ?`, a.Code))
	if err != nil {
		return fmt.Errorf("reload adoption %q: %w", a.Code, err)
	}
	*a = *stored
	return nil
}

// DeleteAdoption removes a region.
// Returns ErrNotFound if the code is unknown.
func (db *DB) DeleteAdoption(ctx context.Context, code string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM adoptions WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete adoption %q: %w", code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AdoptionStats summarises the adoptions table for the health endpoint.
type AdoptionStats struct {
	Regions  int `json:"regions"`
	Earliest int `json:"earliest_jdn"`
	Latest   int `json:"latest_jdn"`
}

// GetAdoptionStats counts regions and their adoption span.
func (db *DB) GetAdoptionStats(ctx context.Context) (*AdoptionStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(MIN(first_gregorian_jdn), 0),
			COALESCE(MAX(first_gregorian_jdn), 0)
		FROM adoptions
	`

	var stats AdoptionStats
	if err := db.QueryRowContext(ctx, query).Scan(&stats.Regions, &stats.Earliest, &stats.Latest); err != nil {
		return nil, fmt.Errorf("query adoption stats: %w", err)
	}
	return &stats, nil
}
