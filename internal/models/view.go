package models

import "encoding/json"

// GapLeader is the sentinel gap string carried by the ranking leader.
const GapLeader = "LEADER"

// DriverView is the nested per-competitor slice of a SessionView: profile
// fields plus the driver's ordered laps and derived fastest lap. FastestLap
// is nil when the driver set no timed lap; it is never zero.
type DriverView struct {
	Number     string   `json:"number"`
	Code       string   `json:"code"`
	FullName   string   `json:"full_name"`
	TeamName   string   `json:"team,omitempty"`
	TeamColor  string   `json:"team_color"`
	Laps       []Lap    `json:"laps"`
	FastestLap *float64 `json:"fastest_lap"`
}

// TimingEntry is one row of the flattened live-timing ranking.
//
// Gap is a presentation convenience: the leader carries the GapLeader
// sentinel and every other driver carries the delta to the entry directly
// ahead of it. It is not an FIA-style gap-to-leader computation.
type TimingEntry struct {
	Position   int      `json:"position"`
	Driver     string   `json:"driver"`
	Code       string   `json:"code"`
	TeamColor  string   `json:"team_color"`
	FastestLap *float64 `json:"fastest_lap"`
	Gap        string   `json:"gap"`
}

// SessionView is the aggregated, presentation-ready shape of one session:
// session metadata, a drivers map keyed by car number, and the flattened
// timing ranking.
type SessionView struct {
	Year      int                    `json:"year"`
	Round     int                    `json:"round"`
	Kind      SessionKind            `json:"kind"`
	EventName string                 `json:"event_name"`
	Country   string                 `json:"country"`
	Location  string                 `json:"location"`
	Weather   json.RawMessage        `json:"weather,omitempty"`
	Circuit   json.RawMessage        `json:"circuit,omitempty"`
	Drivers   map[string]*DriverView `json:"drivers"`
	Timing    []TimingEntry          `json:"timing"`
	// Synthetic is true when the lap data behind this view came from the
	// fallback synthesizer rather than the store.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Stint is a maximal run of consecutive laps by one driver on one tyre
// compound. Stints are derived on every read and never persisted.
type Stint struct {
	Number      int      `json:"stint"`
	Compound    string   `json:"compound"`
	StartLap    int      `json:"start_lap"`
	EndLap      int      `json:"end_lap"`
	Laps        int      `json:"laps"`
	MeanLapTime *float64 `json:"mean_lap_time"`
}

// DriverStrategy is the per-driver stint breakdown served by the strategy
// endpoint.
type DriverStrategy struct {
	Driver    string  `json:"driver"`
	Code      string  `json:"code"`
	TeamColor string  `json:"team_color"`
	PitStops  int     `json:"pit_stops"`
	Stints    []Stint `json:"stints"`
}
