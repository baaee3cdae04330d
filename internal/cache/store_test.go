package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore(time.Minute, time.Minute)

	s.Set("a", "x", time.Minute)
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestMemoryStoreDeleteAndFlush(t *testing.T) {
	s := NewMemoryStore(time.Minute, time.Minute)

	s.Set("a", 1, time.Minute)
	s.Set("b", 2, time.Minute)
	assert.Equal(t, 2, s.ItemCount())

	s.Delete("a")
	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Flush()
	assert.Equal(t, 0, s.ItemCount())
}

func TestMemoryStoreZeroTTLUsesDefault(t *testing.T) {
	s := NewMemoryStore(time.Hour, time.Minute)

	s.Set("a", "x", 0)
	_, ok := s.Get("a")
	assert.True(t, ok)
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "schedule:2024", ScheduleKey(2024))
	assert.Equal(t, "session:2024:5:Race", SessionKey(2024, 5, "Race"))
	assert.Equal(t, "live:2024:5:Race", LiveKey("2024:5:Race"))
	assert.Equal(t, "drivers:true", DriversKey(true))
	assert.Equal(t, "strategy:2024:5:Race", StrategyKey(2024, 5, "Race"))
}
