package models

// Lap is one recorded lap for one driver within one session.
// (SessionID, DriverNumber, Number) is unique; Number is monotonically
// increasing per driver within a session. Timing fields are seconds; a nil
// pointer means the value was not recorded, which is distinct from zero.
type Lap struct {
	ID             int64    `db:"id" json:"-"`
	SessionID      int64    `db:"session_id" json:"-"`
	DriverNumber   string   `db:"driver_number" json:"driver"`
	Number         int      `db:"lap_number" json:"lap"`
	Time           *float64 `db:"lap_time" json:"time"`
	Sector1        *float64 `db:"sector1_time" json:"sector1"`
	Sector2        *float64 `db:"sector2_time" json:"sector2"`
	Sector3        *float64 `db:"sector3_time" json:"sector3"`
	Compound       string   `db:"compound" json:"compound,omitempty"`
	TyreLife       *int     `db:"tyre_life" json:"tyre_life,omitempty"`
	StintNumber    *int     `db:"stint_number" json:"stint,omitempty"`
	PitIn          *float64 `db:"pit_in_time" json:"pit_in,omitempty"`
	PitOut         *float64 `db:"pit_out_time" json:"pit_out,omitempty"`
	IsPersonalBest bool     `db:"is_personal_best" json:"personal_best"`
}

// Timed reports whether the lap has a recorded total time.
func (l *Lap) Timed() bool {
	return l.Time != nil
}

// TelemetryTrace holds the car telemetry channels for one lap, aligned by
// index. Only a subset of laps (typically the fastest) has a trace.
type TelemetryTrace struct {
	SessionID    int64     `db:"session_id" json:"-"`
	DriverNumber string    `db:"driver_number" json:"driver"`
	LapNumber    int       `db:"lap_number" json:"lap"`
	Distance     []float64 `db:"distance" json:"distance"`
	Speed        []float64 `db:"speed" json:"speed"`
	Throttle     []float64 `db:"throttle" json:"throttle"`
	Brake        []float64 `db:"brake" json:"brake"`
	Gear         []int     `db:"gear" json:"gear"`
}
