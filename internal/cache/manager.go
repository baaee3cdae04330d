package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Producer computes a value on cache miss.
type Producer func(ctx context.Context) (interface{}, error)

// Recorder receives cache events for instrumentation. All methods must be
// safe for concurrent use.
type Recorder interface {
	CacheHit(tier string)
	CacheMiss()
	StampedeWait()
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string) {}
func (nopRecorder) CacheMiss()      {}
func (nopRecorder) StampedeWait()   {}

// flight tracks one in-progress producer call for a key.
type flight struct {
	done chan struct{}
	val  interface{}
	err  error
}

// Manager is the read-through cache front. It checks the hot tier, then the
// shared tier, and on a full miss runs the producer exactly once per key no
// matter how many goroutines ask concurrently. The producer runs detached
// from the callers so one waiter cancelling never aborts the fill for the
// rest.
type Manager struct {
	hot    Store
	shared Store // nil when running a single tier

	mu      sync.Mutex
	flights map[string]*flight

	recorder Recorder
	log      *logrus.Logger
}

// NewManager creates a cache manager. shared may be nil.
func NewManager(hot, shared Store, log *logrus.Logger) *Manager {
	return &Manager{
		hot:      hot,
		shared:   shared,
		flights:  make(map[string]*flight),
		recorder: nopRecorder{},
		log:      log,
	}
}

// SetRecorder installs an instrumentation sink. Call before serving traffic.
func (m *Manager) SetRecorder(r Recorder) {
	if r != nil {
		m.recorder = r
	}
}

// Get returns the cached value for key, filling both tiers from producer on
// a miss. Waiters observe ctx cancellation, but the producer itself keeps
// running so late arrivals still get the filled value.
func (m *Manager) Get(ctx context.Context, key string, ttl time.Duration, producer Producer) (interface{}, error) {
	if v, ok := m.hot.Get(key); ok {
		m.recorder.CacheHit("hot")
		return v, nil
	}
	if m.shared != nil {
		if v, ok := m.shared.Get(key); ok {
			m.recorder.CacheHit("shared")
			m.hot.Set(key, v, ttl)
			return v, nil
		}
	}
	m.recorder.CacheMiss()

	m.mu.Lock()
	if f, ok := m.flights[key]; ok {
		m.mu.Unlock()
		m.recorder.StampedeWait()
		return m.wait(ctx, f)
	}

	f := &flight{done: make(chan struct{})}
	m.flights[key] = f
	m.mu.Unlock()

	go m.produce(key, ttl, producer, f)

	return m.wait(ctx, f)
}

func (m *Manager) wait(ctx context.Context, f *flight) (interface{}, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// produce runs the producer with a background context: the fill must not be
// tied to the lifetime of whichever request happened to trigger it.
func (m *Manager) produce(key string, ttl time.Duration, producer Producer, f *flight) {
	v, err := producer(context.Background())
	if err == nil {
		m.hot.Set(key, v, ttl)
		if m.shared != nil {
			m.shared.Set(key, v, ttl)
		}
	} else {
		m.log.WithError(err).WithField("key", key).Warn("cache producer failed")
	}

	m.mu.Lock()
	delete(m.flights, key)
	m.mu.Unlock()

	f.val = v
	f.err = err
	close(f.done)
}

// Invalidate removes key from every tier.
func (m *Manager) Invalidate(key string) {
	m.hot.Delete(key)
	if m.shared != nil {
		m.shared.Delete(key)
	}
}

// Flush empties every tier.
func (m *Manager) Flush() {
	m.hot.Flush()
	if m.shared != nil {
		m.shared.Flush()
	}
}

// Healthy round-trips a probe entry through each tier, verifying the cache
// still accepts writes and serves reads.
func (m *Manager) Healthy() error {
	const key = "health:probe"
	m.hot.Set(key, true, time.Second)
	if _, ok := m.hot.Get(key); !ok {
		return errors.New("hot cache tier failed probe round-trip")
	}
	m.hot.Delete(key)
	if m.shared != nil {
		m.shared.Set(key, true, time.Second)
		if _, ok := m.shared.Get(key); !ok {
			return errors.New("shared cache tier failed probe round-trip")
		}
		m.shared.Delete(key)
	}
	return nil
}

// Peek reports whether key is currently cached, without filling.
func (m *Manager) Peek(key string) bool {
	if _, ok := m.hot.Get(key); ok {
		return true
	}
	if m.shared != nil {
		if _, ok := m.shared.Get(key); ok {
			return true
		}
	}
	return false
}
