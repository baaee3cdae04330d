// Package aggregate turns raw session rows into the presentation-ready
// views served by the API and broadcast to live subscribers.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/models"
)

// Engine builds session views and derives stints. Stateless apart from the
// logger; safe for concurrent use.
type Engine struct {
	log *logrus.Logger
}

func NewEngine(log *logrus.Logger) *Engine {
	return &Engine{log: log}
}

// BuildSessionView aggregates a session's drivers and laps into a
// SessionView: per-driver lap lists with fastest lap, plus the flattened
// timing ranking.
//
// Duplicate lap numbers for a driver keep the first occurrence; the
// duplicate is logged and dropped. Drivers with no timed lap rank after
// every driver that has one.
func (e *Engine) BuildSessionView(session *models.Session, drivers []models.Driver, laps []models.Lap) *models.SessionView {
	view := &models.SessionView{
		Year:      session.Year,
		Round:     session.Round,
		Kind:      session.Kind,
		EventName: session.EventName,
		Country:   session.Country,
		Location:  session.Location,
		Weather:   session.Weather,
		Circuit:   session.CircuitInfo,
		Drivers:   make(map[string]*models.DriverView, len(drivers)),
	}

	for i := range drivers {
		d := &drivers[i]
		view.Drivers[d.Number] = &models.DriverView{
			Number:    d.Number,
			Code:      d.Code,
			FullName:  d.FullName,
			TeamName:  teamName(d),
			TeamColor: d.TeamColor(),
			Laps:      []models.Lap{},
		}
	}

	// Ranking ties break on this order: the roster first, then unknown
	// drivers in first-seen lap order.
	order := make([]string, 0, len(drivers))
	for i := range drivers {
		order = append(order, drivers[i].Number)
	}

	seen := make(map[string]map[int]bool)
	for _, lap := range laps {
		dv, ok := view.Drivers[lap.DriverNumber]
		if !ok {
			// Laps for a driver the roster does not know still render;
			// profile fields fall back to the car number.
			dv = &models.DriverView{
				Number:    lap.DriverNumber,
				Code:      lap.DriverNumber,
				TeamColor: "#808080",
				Laps:      []models.Lap{},
			}
			view.Drivers[lap.DriverNumber] = dv
			order = append(order, lap.DriverNumber)
		}

		if seen[lap.DriverNumber] == nil {
			seen[lap.DriverNumber] = make(map[int]bool)
		}
		if seen[lap.DriverNumber][lap.Number] {
			e.log.WithFields(logrus.Fields{
				"session": session.Key(),
				"driver":  lap.DriverNumber,
				"lap":     lap.Number,
			}).Warn("duplicate lap number, keeping first")
			continue
		}
		seen[lap.DriverNumber][lap.Number] = true

		dv.Laps = append(dv.Laps, lap)
		if lap.Timed() && (dv.FastestLap == nil || *lap.Time < *dv.FastestLap) {
			t := *lap.Time
			dv.FastestLap = &t
		}
	}

	view.Timing = e.buildTiming(order, view.Drivers)
	return view
}

// buildTiming ranks drivers by fastest lap ascending. Drivers tied on
// fastest lap, and drivers with none, keep their relative order from the
// input roster: the stable sort is seeded in roster order and never
// compares beyond the lap time.
func (e *Engine) buildTiming(order []string, drivers map[string]*models.DriverView) []models.TimingEntry {
	entries := make([]models.TimingEntry, 0, len(order))
	for _, number := range order {
		dv := drivers[number]
		entries = append(entries, models.TimingEntry{
			Driver:     dv.Number,
			Code:       dv.Code,
			TeamColor:  dv.TeamColor,
			FastestLap: dv.FastestLap,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].FastestLap, entries[j].FastestLap
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	for i := range entries {
		entries[i].Position = i + 1
		switch {
		case i == 0:
			entries[i].Gap = models.GapLeader
		case entries[i].FastestLap == nil || entries[i-1].FastestLap == nil:
			entries[i].Gap = ""
		default:
			entries[i].Gap = fmt.Sprintf("+%.3f", *entries[i].FastestLap-*entries[i-1].FastestLap)
		}
	}
	return entries
}

func teamName(d *models.Driver) string {
	if d.Team == nil {
		return ""
	}
	return d.Team.Name
}
