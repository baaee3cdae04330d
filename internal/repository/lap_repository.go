package repository

import (
	"context"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresLapRepository implements LapRepository for PostgreSQL
type PostgresLapRepository struct {
	db *database.DB
}

// NewPostgresLapRepository creates a new lap repository
func NewPostgresLapRepository(db *database.DB) LapRepository {
	return &PostgresLapRepository{db: db}
}

// GetBySession retrieves the laps of a session ordered by driver then lap
// number. driverFilter narrows the result to one car number when non-empty.
func (r *PostgresLapRepository) GetBySession(ctx context.Context, sessionID int64, driverFilter string) ([]models.Lap, error) {
	query := `
		SELECT id, session_id, driver_number, lap_number, lap_time,
		       sector1_time, sector2_time, sector3_time,
		       compound, tyre_life, stint_number,
		       pit_in_time, pit_out_time, is_personal_best
		FROM lap_times
		WHERE session_id = $1 AND ($2 = '' OR driver_number = $2)
		ORDER BY driver_number, lap_number ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sessionID, driverFilter)
	if err != nil {
		return nil, storeErr("query laps", err)
	}
	defer rows.Close()

	var laps []models.Lap
	for rows.Next() {
		var (
			l        models.Lap
			compound *string
		)
		err := rows.Scan(
			&l.ID, &l.SessionID, &l.DriverNumber, &l.Number, &l.Time,
			&l.Sector1, &l.Sector2, &l.Sector3,
			&compound, &l.TyreLife, &l.StintNumber,
			&l.PitIn, &l.PitOut, &l.IsPersonalBest,
		)
		if err != nil {
			return nil, storeErr("scan lap row", err)
		}
		if compound != nil {
			l.Compound = *compound
		}
		laps = append(laps, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate lap rows", err)
	}

	return laps, nil
}
