package aggregate

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/models"
)

func newTestEngine() *Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewEngine(log)
}

func f(v float64) *float64 { return &v }

func testSession() *models.Session {
	return &models.Session{
		Year: 2024, Round: 5, Kind: models.KindRace,
		EventName: "Chinese Grand Prix", Country: "China", Location: "Shanghai",
	}
}

func testDrivers() []models.Driver {
	return []models.Driver{
		{Number: "1", Code: "VER", FullName: "Max Verstappen",
			Team: &models.Team{Name: "Red Bull Racing", Color: "#3671C6"}},
		{Number: "44", Code: "HAM", FullName: "Lewis Hamilton",
			Team: &models.Team{Name: "Mercedes", Color: "#27F4D2"}},
	}
}

func TestBuildSessionViewRanking(t *testing.T) {
	e := newTestEngine()

	laps := []models.Lap{
		{DriverNumber: "1", Number: 1, Time: f(91.2)},
		{DriverNumber: "1", Number: 2, Time: f(90.5)},
		{DriverNumber: "44", Number: 1, Time: f(91.4)},
		{DriverNumber: "44", Number: 2, Time: f(90.7)},
	}

	view := e.BuildSessionView(testSession(), testDrivers(), laps)

	require.Len(t, view.Timing, 2)
	assert.Equal(t, "1", view.Timing[0].Driver)
	assert.Equal(t, 1, view.Timing[0].Position)
	assert.Equal(t, models.GapLeader, view.Timing[0].Gap)
	require.NotNil(t, view.Timing[0].FastestLap)
	assert.InDelta(t, 90.5, *view.Timing[0].FastestLap, 1e-9)

	assert.Equal(t, "44", view.Timing[1].Driver)
	assert.Equal(t, "+0.200", view.Timing[1].Gap)
	assert.False(t, view.Synthetic)
}

func TestBuildSessionViewDuplicateLapKeepsFirst(t *testing.T) {
	e := newTestEngine()

	laps := []models.Lap{
		{DriverNumber: "1", Number: 1, Time: f(91.0)},
		{DriverNumber: "1", Number: 1, Time: f(89.0)},
	}

	view := e.BuildSessionView(testSession(), testDrivers(), laps)

	dv := view.Drivers["1"]
	require.Len(t, dv.Laps, 1)
	assert.InDelta(t, 91.0, *dv.Laps[0].Time, 1e-9)
	assert.InDelta(t, 91.0, *dv.FastestLap, 1e-9)
}

func TestBuildSessionViewUntimedDriverRanksLast(t *testing.T) {
	e := newTestEngine()

	laps := []models.Lap{
		{DriverNumber: "1", Number: 1},
		{DriverNumber: "44", Number: 1, Time: f(92.0)},
	}

	view := e.BuildSessionView(testSession(), testDrivers(), laps)

	require.Len(t, view.Timing, 2)
	assert.Equal(t, "44", view.Timing[0].Driver)
	assert.Equal(t, "1", view.Timing[1].Driver)
	assert.Nil(t, view.Timing[1].FastestLap)
	assert.Empty(t, view.Timing[1].Gap)

	assert.Nil(t, view.Drivers["1"].FastestLap)
}

func TestBuildSessionViewUnknownDriverStillRenders(t *testing.T) {
	e := newTestEngine()

	laps := []models.Lap{
		{DriverNumber: "99", Number: 1, Time: f(95.0)},
	}

	view := e.BuildSessionView(testSession(), testDrivers(), laps)

	dv, ok := view.Drivers["99"]
	require.True(t, ok)
	assert.Equal(t, "99", dv.Code)
	assert.Equal(t, "#808080", dv.TeamColor)
	require.Len(t, dv.Laps, 1)
}

func TestBuildSessionViewNoLaps(t *testing.T) {
	e := newTestEngine()

	view := e.BuildSessionView(testSession(), testDrivers(), nil)

	require.Len(t, view.Timing, 2)
	for _, entry := range view.Timing {
		assert.Nil(t, entry.FastestLap)
	}
	// Untimed drivers tie; roster order keeps the ranking stable.
	assert.Equal(t, "1", view.Timing[0].Driver)
	assert.Equal(t, models.GapLeader, view.Timing[0].Gap)
}

func TestBuildSessionViewTieKeepsRosterOrder(t *testing.T) {
	e := newTestEngine()

	// 44 ahead of 1 in the roster; both set the same fastest lap.
	drivers := []models.Driver{
		{Number: "44", Code: "HAM"},
		{Number: "1", Code: "VER"},
	}
	laps := []models.Lap{
		{DriverNumber: "44", Number: 1, Time: f(90.5)},
		{DriverNumber: "1", Number: 1, Time: f(90.5)},
	}

	view := e.BuildSessionView(testSession(), drivers, laps)

	require.Len(t, view.Timing, 2)
	assert.Equal(t, "44", view.Timing[0].Driver)
	assert.Equal(t, "1", view.Timing[1].Driver)
	assert.Equal(t, "+0.000", view.Timing[1].Gap)
}

func TestBuildSessionViewUntimedKeepRosterOrderNotNumberOrder(t *testing.T) {
	e := newTestEngine()

	// "2" sorts after "10" as a string; roster order must win.
	drivers := []models.Driver{
		{Number: "2", Code: "SAR"},
		{Number: "10", Code: "GAS"},
	}

	view := e.BuildSessionView(testSession(), drivers, nil)

	require.Len(t, view.Timing, 2)
	assert.Equal(t, "2", view.Timing[0].Driver)
	assert.Equal(t, "10", view.Timing[1].Driver)
}

func TestBuildSessionViewUnknownDriversRankInFirstSeenOrder(t *testing.T) {
	e := newTestEngine()

	laps := []models.Lap{
		{DriverNumber: "99", Number: 1},
		{DriverNumber: "98", Number: 1},
	}

	view := e.BuildSessionView(testSession(), nil, laps)

	require.Len(t, view.Timing, 2)
	assert.Equal(t, "99", view.Timing[0].Driver)
	assert.Equal(t, "98", view.Timing[1].Driver)
}
