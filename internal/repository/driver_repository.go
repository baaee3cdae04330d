package repository

import (
	"context"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/models"
)

const errScanDriver = "scan driver row"

// PostgresDriverRepository implements DriverRepository for PostgreSQL
type PostgresDriverRepository struct {
	db *database.DB
}

// NewPostgresDriverRepository creates a new driver repository
func NewPostgresDriverRepository(db *database.DB) DriverRepository {
	return &PostgresDriverRepository{db: db}
}

const driverColumns = `
	d.driver_number, d.driver_code, d.full_name, d.first_name, d.last_name,
	d.nationality, d.team_id, d.is_active, d.created_at,
	t.id, t.team_name, t.constructor_name, t.team_color, t.nationality, t.year, t.is_active
`

// GetAll retrieves drivers with their team resolved, ordered by car number
func (r *PostgresDriverRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers d
		LEFT JOIN teams t ON d.team_id = t.id
		WHERE ($1 = false OR d.is_active = true)
		ORDER BY d.driver_number::int ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, activeOnly)
	if err != nil {
		return nil, storeErr("query drivers", err)
	}
	defer rows.Close()

	return scanDrivers(rows)
}

// GetBySession retrieves the drivers that recorded laps in a session,
// preserving car-number order
func (r *PostgresDriverRepository) GetBySession(ctx context.Context, sessionID int64) ([]models.Driver, error) {
	query := `
		SELECT ` + driverColumns + `
		FROM drivers d
		LEFT JOIN teams t ON d.team_id = t.id
		WHERE d.driver_number IN (
			SELECT DISTINCT driver_number FROM lap_times WHERE session_id = $1
		)
		ORDER BY d.driver_number::int ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, sessionID)
	if err != nil {
		return nil, storeErr("query session drivers", err)
	}
	defer rows.Close()

	return scanDrivers(rows)
}

type driverRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDrivers(rows driverRows) ([]models.Driver, error) {
	var drivers []models.Driver
	for rows.Next() {
		var (
			d           models.Driver
			teamID      *int64
			teamName    *string
			constructor *string
			teamColor   *string
			teamNat     *string
			teamYear    *int
			teamActive  *bool
		)
		err := rows.Scan(
			&d.Number, &d.Code, &d.FullName, &d.FirstName, &d.LastName,
			&d.Nationality, &d.TeamID, &d.Active, &d.CreatedAt,
			&teamID, &teamName, &constructor, &teamColor, &teamNat, &teamYear, &teamActive,
		)
		if err != nil {
			return nil, storeErr(errScanDriver, err)
		}

		// Team reference may be null, never dangling.
		if teamID != nil {
			d.Team = &models.Team{
				ID:          *teamID,
				Name:        deref(teamName),
				Constructor: deref(constructor),
				Color:       deref(teamColor),
				Nationality: deref(teamNat),
				Active:      teamActive != nil && *teamActive,
			}
			if teamYear != nil {
				d.Team.Year = *teamYear
			}
		}
		drivers = append(drivers, d)
	}

	return drivers, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
