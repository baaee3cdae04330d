package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SessionKind identifies the kind of timed track activity within an event round.
type SessionKind string

// Session kinds as stored by the ingestion job.
const (
	KindPractice1  SessionKind = "FP1"
	KindPractice2  SessionKind = "FP2"
	KindPractice3  SessionKind = "FP3"
	KindQualifying SessionKind = "Q"
	KindSprint     SessionKind = "Sprint"
	KindRace       SessionKind = "Race"
)

// ParseSessionKind normalizes a transport-level session kind string.
// Accepts the stored spellings plus the common aliases used by clients.
func ParseSessionKind(s string) (SessionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FP1", "PRACTICE1":
		return KindPractice1, nil
	case "FP2", "PRACTICE2":
		return KindPractice2, nil
	case "FP3", "PRACTICE3":
		return KindPractice3, nil
	case "Q", "QUALIFYING":
		return KindQualifying, nil
	case "S", "SPRINT":
		return KindSprint, nil
	case "R", "RACE":
		return KindRace, nil
	}
	return "", fmt.Errorf("%w: unknown session kind %q", ErrValidation, s)
}

// Session represents one timed track activity for one event round.
// The tuple (Year, Round, Kind) is unique; sessions are created by the
// external ingestion job and are read-only to this service.
type Session struct {
	ID          int64           `db:"id" json:"id"`
	Year        int             `db:"year" json:"year" validate:"required,gte=1950"`
	Round       int             `db:"round_number" json:"round" validate:"required,gt=0"`
	Kind        SessionKind     `db:"session_type" json:"kind" validate:"required"`
	EventName   string          `db:"event_name" json:"event_name"`
	Country     string          `db:"country" json:"country"`
	Location    string          `db:"location" json:"location"`
	ScheduledAt *time.Time      `db:"session_date" json:"scheduled_at"`
	Weather     json.RawMessage `db:"weather_data" json:"weather,omitempty"`
	CircuitInfo json.RawMessage `db:"circuit_info" json:"circuit,omitempty"`
	Processed   bool            `db:"is_processed" json:"processed"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Key returns the stable cache/room key for this session.
func (s *Session) Key() string {
	return SessionKeyFor(s.Year, s.Round, s.Kind)
}

// SessionKeyFor builds the "{year}:{round}:{kind}" key used for live rooms
// and snapshot caching.
func SessionKeyFor(year, round int, kind SessionKind) string {
	return fmt.Sprintf("%d:%d:%s", year, round, kind)
}

// ParseSessionKey splits a "{year}:{round}:{kind}" key.
func ParseSessionKey(key string) (int, int, SessionKind, error) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return 0, 0, "", fmt.Errorf("%w: malformed session key %q", ErrValidation, key)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: malformed year in session key %q", ErrValidation, key)
	}
	round, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: malformed round in session key %q", ErrValidation, key)
	}
	kind, err := ParseSessionKind(parts[2])
	if err != nil {
		return 0, 0, "", err
	}
	return year, round, kind, nil
}

// SessionSummary is a schedule entry: one round of a season with the
// dates of its sessions, as returned by the schedule endpoints.
type SessionSummary struct {
	Year      int        `db:"year" json:"year"`
	Round     int        `db:"round_number" json:"round"`
	EventName string     `db:"event_name" json:"event_name"`
	Country   string     `db:"country" json:"country"`
	Location  string     `db:"location" json:"location"`
	EventDate *time.Time `db:"session_date" json:"event_date"`
	// Synthetic marks placeholder entries produced by the fallback
	// synthesizer, never data read from the store.
	Synthetic bool `db:"-" json:"synthetic,omitempty"`
}
