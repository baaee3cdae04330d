package models

import "time"

// Team represents a constructor entry for one season.
type Team struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"team_name" json:"name" validate:"required"`
	Constructor string    `db:"constructor_name" json:"constructor"`
	Color       string    `db:"team_color" json:"color"`
	Nationality string    `db:"nationality" json:"nationality"`
	Year        int       `db:"year" json:"year"`
	Active      bool      `db:"is_active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Driver represents a competitor tracked across sessions, identified by a
// stable car number. The team reference may be nil (unassigned) but the
// store guarantees it is never dangling.
type Driver struct {
	Number      string    `db:"driver_number" json:"number" validate:"required"`
	Code        string    `db:"driver_code" json:"code"`
	FullName    string    `db:"full_name" json:"full_name"`
	FirstName   string    `db:"first_name" json:"first_name,omitempty"`
	LastName    string    `db:"last_name" json:"last_name,omitempty"`
	Nationality string    `db:"nationality" json:"nationality"`
	TeamID      *int64    `db:"team_id" json:"-"`
	Team        *Team     `db:"-" json:"team,omitempty"`
	Active      bool      `db:"is_active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TeamColor returns the driver's team color, or a neutral default when the
// driver has no team assigned.
func (d *Driver) TeamColor() string {
	if d.Team == nil || d.Team.Color == "" {
		return "#808080"
	}
	return d.Team.Color
}

// DisplayName returns the code when present, otherwise the car number.
func (d *Driver) DisplayName() string {
	if d.Code != "" {
		return d.Code
	}
	return d.Number
}
