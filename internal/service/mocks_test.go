package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/pitwall/internal/models"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) GetByKey(ctx context.Context, year, round int, kind models.SessionKind) (*models.Session, error) {
	args := m.Called(ctx, year, round, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionSummary), args.Error(1)
}

func (m *MockSessionRepository) CountByYear(ctx context.Context, year int) (int, error) {
	args := m.Called(ctx, year)
	return args.Int(0), args.Error(1)
}

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) GetAll(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetBySession(ctx context.Context, sessionID int64) ([]models.Driver, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

type MockLapRepository struct {
	mock.Mock
}

func (m *MockLapRepository) GetBySession(ctx context.Context, sessionID int64, driverFilter string) ([]models.Lap, error) {
	args := m.Called(ctx, sessionID, driverFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lap), args.Error(1)
}

type MockTelemetryRepository struct {
	mock.Mock
}

func (m *MockTelemetryRepository) GetByDriver(ctx context.Context, sessionID int64, driverNumber string) ([]models.TelemetryTrace, error) {
	args := m.Called(ctx, sessionID, driverNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TelemetryTrace), args.Error(1)
}
