// Package repository implements typed read access to the relational store.
// Repositories never mutate session data; the external ingestion job owns it.
package repository

import (
	"fmt"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Session   SessionRepository
	Driver    DriverRepository
	Lap       LapRepository
	Telemetry TelemetryRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Session:   NewPostgresSessionRepository(db),
		Driver:    NewPostgresDriverRepository(db),
		Lap:       NewPostgresLapRepository(db),
		Telemetry: NewPostgresTelemetryRepository(db),
	}, nil
}

// storeErr wraps a storage failure so callers can match it with
// errors.Is(err, models.ErrStoreUnavailable). The cause is preserved in the
// message only; fallback synthesis must never trigger on these.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrStoreUnavailable, op, err)
}
