package repository

import (
	"context"

	"github.com/yourusername/pitwall/internal/models"
)

// SessionRepository defines read access to session records. Implementations
// must be safe for concurrent use; all operations are read-only.
type SessionRepository interface {
	// GetByKey returns the session identified by (year, round, kind), or
	// models.ErrNotFound.
	GetByKey(ctx context.Context, year, round int, kind models.SessionKind) (*models.Session, error)
	// GetSchedule returns the round summaries for a year, ordered by round.
	// An empty slice is not an error.
	GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error)
	// CountByYear reports how many sessions exist for a year. Used to decide
	// whether fallback synthesis applies.
	CountByYear(ctx context.Context, year int) (int, error)
}

// DriverRepository defines read access to competitor records.
type DriverRepository interface {
	// GetAll returns drivers with their team resolved, ordered by car number.
	GetAll(ctx context.Context, activeOnly bool) ([]models.Driver, error)
	// GetBySession returns the drivers that recorded laps in a session.
	GetBySession(ctx context.Context, sessionID int64) ([]models.Driver, error)
}

// LapRepository defines read access to lap records.
type LapRepository interface {
	// GetBySession returns every lap of a session ordered by driver and lap
	// number. driverFilter narrows the result to one car number when non-empty.
	GetBySession(ctx context.Context, sessionID int64, driverFilter string) ([]models.Lap, error)
}

// TelemetryRepository defines read access to per-lap telemetry traces.
type TelemetryRepository interface {
	// GetByDriver returns the telemetry traces recorded for one driver in a
	// session, ordered by lap number. An empty slice is not an error.
	GetByDriver(ctx context.Context, sessionID int64, driverNumber string) ([]models.TelemetryTrace, error)
}
