package scheduler

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/live"
)

func newTestScheduler() *Scheduler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScheduler(nil, nil, live.NewHub(log), log)
}

func TestStartRequiresJobs(t *testing.T) {
	s := newTestScheduler()
	require.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestScheduleAndStartStop(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.ScheduleLivePublishing(5, ""))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.GetNextRun().IsZero())

	require.Error(t, s.Start(), "double start should fail")
	require.Error(t, s.ScheduleLivePublishing(5, ""), "scheduling while running should fail")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(), "stop is idempotent")
}

func TestScheduleRefreshBadExpression(t *testing.T) {
	s := newTestScheduler()
	require.Error(t, s.ScheduleRefresh("not a cron", 2024))
}

func TestLivePublishingMinimumInterval(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.ScheduleLivePublishing(1, ""))
	require.NoError(t, s.Start())
	defer func() { _ = s.Stop() }()
	assert.True(t, s.IsRunning())
}
