package repository

import (
	"context"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresTelemetryRepository implements TelemetryRepository for PostgreSQL
type PostgresTelemetryRepository struct {
	db *database.DB
}

// NewPostgresTelemetryRepository creates a new telemetry repository
func NewPostgresTelemetryRepository(db *database.DB) TelemetryRepository {
	return &PostgresTelemetryRepository{db: db}
}

// GetByDriver retrieves the telemetry traces recorded for one driver in a
// session, ordered by lap number. Channel arrays come back index-aligned.
func (r *PostgresTelemetryRepository) GetByDriver(ctx context.Context, sessionID int64, driverNumber string) ([]models.TelemetryTrace, error) {
	query := `
		SELECT session_id, driver_number, lap_number,
		       distance, speed, throttle, brake, gear
		FROM car_telemetry
		WHERE session_id = $1 AND driver_number = $2
		ORDER BY lap_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sessionID, driverNumber)
	if err != nil {
		return nil, storeErr("query telemetry", err)
	}
	defer rows.Close()

	var traces []models.TelemetryTrace
	for rows.Next() {
		var t models.TelemetryTrace
		err := rows.Scan(
			&t.SessionID, &t.DriverNumber, &t.LapNumber,
			&t.Distance, &t.Speed, &t.Throttle, &t.Brake, &t.Gear,
		)
		if err != nil {
			return nil, storeErr("scan telemetry row", err)
		}
		traces = append(traces, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate telemetry rows", err)
	}

	return traces, nil
}
