// Package scheduler runs the background jobs: the hourly schedule-cache
// refresh and the live-timing publisher that pushes snapshots into session
// rooms.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/cache"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/service"
)

// Scheduler manages the cron jobs of the backend.
type Scheduler struct {
	cron     *cron.Cron
	sessions *service.SessionService
	cacheMgr *cache.Manager
	hub      *live.Hub
	log      *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler over the session service, cache, and hub.
func NewScheduler(sessions *service.SessionService, cacheMgr *cache.Manager, hub *live.Hub, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		sessions: sessions,
		cacheMgr: cacheMgr,
		hub:      hub,
		log:      log,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleRefresh re-warms the season schedule on a cron expression,
// evicting the cached entry first so the store is actually consulted.
func (s *Scheduler) ScheduleRefresh(cronExpression string, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		s.cacheMgr.Invalidate(cache.ScheduleKey(year))
		if _, err := s.sessions.GetSchedule(ctx, year); err != nil {
			s.log.WithError(err).WithField("year", year).Error("schedule refresh failed")
			return
		}
		s.log.WithField("year", year).Debug("schedule refreshed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithFields(logrus.Fields{
		"cron": cronExpression,
		"year": year,
	}).Info("scheduled schedule refresh")

	return nil
}

// ScheduleLivePublishing pushes a fresh timing snapshot into every active
// session room at a fixed interval. Rooms with no subscribers cost nothing
// because the hub has already deleted them. A non-empty pinnedRoom is
// refreshed on every tick regardless of subscribers, keeping its snapshot
// warm for the current event.
func (s *Scheduler) ScheduleLivePublishing(intervalSeconds int, pinnedRoom string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if intervalSeconds < 5 {
		intervalSeconds = 5
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(intervalSeconds-1)*time.Second)
		defer cancel()
		s.publishRooms(ctx, pinnedRoom)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", intervalSeconds), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add live publishing job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithField("interval_seconds", intervalSeconds).Info("scheduled live publishing")

	return nil
}

func (s *Scheduler) publishRooms(ctx context.Context, pinnedRoom string) {
	rooms := s.hub.Rooms()
	metrics.LiveRooms.Set(float64(len(rooms)))

	if pinnedRoom != "" && !containsRoom(rooms, pinnedRoom) {
		rooms = append(rooms, pinnedRoom)
	}

	total := 0
	for _, room := range rooms {
		view, err := s.sessions.LiveSnapshot(ctx, room)
		if err != nil {
			s.log.WithError(err).WithField("room", room).Warn("live snapshot failed")
			continue
		}

		ev, err := live.NewEvent(live.EventTimingUpdate, room, view.Timing)
		if err != nil {
			s.log.WithError(err).WithField("room", room).Error("failed to encode timing update")
			continue
		}
		s.hub.Publish(room, ev)
		total += s.hub.RoomSize(room)
	}
	metrics.LiveSubscribers.Set(float64(total))
}

func containsRoom(rooms []string, room string) bool {
	for _, r := range rooms {
		if r == room {
			return true
		}
	}
	return false
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("scheduler stopped")

	return nil
}

// IsRunning reports whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
