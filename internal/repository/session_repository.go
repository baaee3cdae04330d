package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

// PostgresSessionRepository implements SessionRepository for PostgreSQL
type PostgresSessionRepository struct {
	db *database.DB
}

// NewPostgresSessionRepository creates a new session repository
func NewPostgresSessionRepository(db *database.DB) SessionRepository {
	return &PostgresSessionRepository{db: db}
}

// GetByKey retrieves the session identified by (year, round, kind)
func (r *PostgresSessionRepository) GetByKey(ctx context.Context, year, round int, kind models.SessionKind) (*models.Session, error) {
	query := `
		SELECT id, year, round_number, session_type, event_name, country, location,
		       session_date, weather_data, circuit_info, is_processed, created_at
		FROM f1_sessions
		WHERE year = $1 AND round_number = $2 AND session_type = $3
	`

	s := &models.Session{}
	err := r.db.GetPool().QueryRow(ctx, query, year, round, string(kind)).Scan(
		&s.ID, &s.Year, &s.Round, &s.Kind, &s.EventName, &s.Country, &s.Location,
		&s.ScheduledAt, &s.Weather, &s.CircuitInfo, &s.Processed, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get session", err)
	}

	return s, nil
}

// GetSchedule retrieves the round summaries for a year ordered by round
// number. One row per round: the race session carries the event metadata.
func (r *PostgresSessionRepository) GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error) {
	query := `
		SELECT DISTINCT ON (round_number)
		       year, round_number, event_name, country, location, session_date
		FROM f1_sessions
		WHERE year = $1
		ORDER BY round_number ASC, session_type = 'Race' DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, year)
	if err != nil {
		return nil, storeErr("query schedule", err)
	}
	defer rows.Close()

	var schedule []models.SessionSummary
	for rows.Next() {
		var s models.SessionSummary
		if err := rows.Scan(&s.Year, &s.Round, &s.EventName, &s.Country, &s.Location, &s.EventDate); err != nil {
			return nil, storeErr("scan schedule row", err)
		}
		schedule = append(schedule, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate schedule rows", err)
	}

	return schedule, nil
}

// CountByYear reports how many sessions exist for a year
func (r *PostgresSessionRepository) CountByYear(ctx context.Context, year int) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT COUNT(*) FROM f1_sessions WHERE year = $1", year,
	).Scan(&count)
	if err != nil {
		return 0, storeErr("count sessions", err)
	}
	return count, nil
}
