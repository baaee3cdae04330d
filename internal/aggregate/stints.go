package aggregate

import "github.com/yourusername/pitwall/internal/models"

// DeriveStints splits one driver's ordered laps into maximal runs of
// consecutive laps on the same compound. A lap without a compound neither
// starts, extends, nor ends a run: the run continues across it, but a gap
// of genuinely missing lap numbers still splits. Laps counts only the
// compound-bearing laps of the stint. MeanLapTime averages only the timed
// laps; it is nil when none were timed.
func DeriveStints(laps []models.Lap) []models.Stint {
	var stints []models.Stint
	var cur *models.Stint
	var sum float64
	var timed int
	var next int // lap number that would continue the current run

	flush := func() {
		if cur == nil {
			return
		}
		if timed > 0 {
			mean := sum / float64(timed)
			cur.MeanLapTime = &mean
		}
		stints = append(stints, *cur)
		cur, sum, timed = nil, 0, 0
	}

	for _, lap := range laps {
		if lap.Compound == "" {
			// Bridge the run over the lap when it is the expected next
			// number, without extending the stint's range.
			if cur != nil && lap.Number == next {
				next = lap.Number + 1
			}
			continue
		}
		if cur != nil && (lap.Compound != cur.Compound || lap.Number != next) {
			flush()
		}
		if cur == nil {
			cur = &models.Stint{
				Number:   len(stints) + 1,
				Compound: lap.Compound,
				StartLap: lap.Number,
				EndLap:   lap.Number,
			}
		} else {
			cur.EndLap = lap.Number
		}
		cur.Laps++
		next = lap.Number + 1
		if lap.Timed() {
			sum += *lap.Time
			timed++
		}
	}
	flush()

	return stints
}

// BuildStrategy derives the stint breakdown for every driver in a session
// view, ordered like the timing ranking.
func (e *Engine) BuildStrategy(view *models.SessionView) []models.DriverStrategy {
	strategies := make([]models.DriverStrategy, 0, len(view.Timing))
	for _, entry := range view.Timing {
		dv, ok := view.Drivers[entry.Driver]
		if !ok {
			continue
		}
		stints := DeriveStints(dv.Laps)
		pitStops := 0
		if len(stints) > 0 {
			pitStops = len(stints) - 1
		}
		strategies = append(strategies, models.DriverStrategy{
			Driver:    dv.Number,
			Code:      dv.Code,
			TeamColor: dv.TeamColor,
			PitStops:  pitStops,
			Stints:    stints,
		})
	}
	return strategies
}
