// Package service hosts the read-side orchestration: every API operation
// funnels through here, layering validation, the read-through cache, the
// store, and the fallback synthesizer in that order.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/aggregate"
	"github.com/yourusername/pitwall/internal/cache"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/synth"
)

const (
	minYear = 1950
	maxYear = 2100
)

// SessionService serves schedules, session views, rosters, telemetry, and
// strategy breakdowns. Fallback synthesis happens only when the store
// answered successfully with nothing; a store error is never papered over.
type SessionService struct {
	repos  *repository.Repositories
	cache  *cache.Manager
	synth  *synth.Synthesizer
	engine *aggregate.Engine
	cfg    *config.CacheConfig
	log    *logrus.Logger
}

func NewSessionService(
	repos *repository.Repositories,
	cacheManager *cache.Manager,
	synthesizer *synth.Synthesizer,
	engine *aggregate.Engine,
	cfg *config.CacheConfig,
	log *logrus.Logger,
) *SessionService {
	return &SessionService{
		repos:  repos,
		cache:  cacheManager,
		synth:  synthesizer,
		engine: engine,
		cfg:    cfg,
		log:    log,
	}
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d out of range", models.ErrValidation, year)
	}
	return nil
}

func validateRound(round int) error {
	if round < 1 {
		return fmt.Errorf("%w: round %d out of range", models.ErrValidation, round)
	}
	return nil
}

// GetSchedule returns the season schedule, synthesizing a placeholder
// calendar when the store has no rounds for the year.
func (s *SessionService) GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}

	v, err := s.cache.Get(ctx, cache.ScheduleKey(year), s.cfg.ScheduleTTL(), func(ctx context.Context) (interface{}, error) {
		schedule, err := s.repos.Session.GetSchedule(ctx, year)
		if err != nil {
			return nil, err
		}
		if len(schedule) == 0 {
			metrics.RecordSyntheticResponse()
			return s.synth.Schedule(year), nil
		}
		return schedule, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.SessionSummary), nil
}

// GetSession returns the aggregated view of one session.
//
// Missing data resolves in two distinct ways: if the whole year is absent
// from the store the view is fully synthetic; if the session row exists but
// its laps were never ingested, synthetic laps attach to the real metadata.
// A session missing from an otherwise populated year is a plain not-found.
func (s *SessionService) GetSession(ctx context.Context, year, round int, kind models.SessionKind) (*models.SessionView, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateRound(round); err != nil {
		return nil, err
	}

	key := cache.SessionKey(year, round, string(kind))
	v, err := s.cache.Get(ctx, key, s.cfg.SessionTTL(), func(ctx context.Context) (interface{}, error) {
		return s.buildSession(ctx, year, round, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.SessionView), nil
}

func (s *SessionService) buildSession(ctx context.Context, year, round int, kind models.SessionKind) (*models.SessionView, error) {
	session, err := s.repos.Session.GetByKey(ctx, year, round, kind)
	if errors.Is(err, models.ErrNotFound) {
		count, countErr := s.repos.Session.CountByYear(ctx, year)
		if countErr != nil {
			return nil, countErr
		}
		if count == 0 {
			metrics.RecordSyntheticResponse()
			return s.synth.Session(year, round, kind), nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	laps, err := s.repos.Lap.GetBySession(ctx, session.ID, "")
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		metrics.RecordSyntheticResponse()
		return s.synth.Laps(session), nil
	}

	drivers, err := s.repos.Driver.GetBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return s.engine.BuildSessionView(session, drivers, laps), nil
}

// GetDrivers returns the driver roster.
func (s *SessionService) GetDrivers(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	v, err := s.cache.Get(ctx, cache.DriversKey(activeOnly), s.cfg.DriversTTL(), func(ctx context.Context) (interface{}, error) {
		return s.repos.Driver.GetAll(ctx, activeOnly)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Driver), nil
}

// GetTelemetry returns one driver's telemetry traces for a session.
// Uncached: traces are large, rarely re-requested, and immutable once
// ingested. There is no synthetic telemetry; absent traces are a not-found.
func (s *SessionService) GetTelemetry(ctx context.Context, year, round int, kind models.SessionKind, driver string) ([]models.TelemetryTrace, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateRound(round); err != nil {
		return nil, err
	}
	if driver == "" {
		return nil, fmt.Errorf("%w: driver is required", models.ErrValidation)
	}

	session, err := s.repos.Session.GetByKey(ctx, year, round, kind)
	if err != nil {
		return nil, err
	}
	traces, err := s.repos.Telemetry.GetByDriver(ctx, session.ID, driver)
	if err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, fmt.Errorf("%w: no telemetry for driver %s", models.ErrNotFound, driver)
	}
	return traces, nil
}

// GetStrategy returns the per-driver stint breakdown of a session.
func (s *SessionService) GetStrategy(ctx context.Context, year, round int, kind models.SessionKind) ([]models.DriverStrategy, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateRound(round); err != nil {
		return nil, err
	}

	v, err := s.cache.Get(ctx, cache.StrategyKey(year, round, string(kind)), s.cfg.SessionTTL(), func(ctx context.Context) (interface{}, error) {
		view, err := s.GetSession(ctx, year, round, kind)
		if err != nil {
			return nil, err
		}
		return s.engine.BuildStrategy(view), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.DriverStrategy), nil
}

// LiveSnapshot returns the short-lived view broadcast to a session's room,
// keyed by the room's "{year}:{round}:{kind}" key. Behind its own cache key
// so the 5-second TTL does not evict the full session view.
func (s *SessionService) LiveSnapshot(ctx context.Context, sessionKey string) (*models.SessionView, error) {
	year, round, kind, err := models.ParseSessionKey(sessionKey)
	if err != nil {
		return nil, err
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if err := validateRound(round); err != nil {
		return nil, err
	}

	v, err := s.cache.Get(ctx, cache.LiveKey(sessionKey), s.cfg.LiveTTL(), func(ctx context.Context) (interface{}, error) {
		return s.buildSession(ctx, year, round, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.SessionView), nil
}

// InvalidateSession evicts the cached view, live snapshot, and strategy of
// a session, forcing the next read to hit the store.
func (s *SessionService) InvalidateSession(year, round int, kind models.SessionKind) {
	s.cache.Invalidate(cache.SessionKey(year, round, string(kind)))
	s.cache.Invalidate(cache.LiveKey(models.SessionKeyFor(year, round, kind)))
	s.cache.Invalidate(cache.StrategyKey(year, round, string(kind)))
}
