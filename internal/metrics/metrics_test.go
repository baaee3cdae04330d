package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	r1 := InitRegistry()
	r2 := InitRegistry()
	assert.Same(t, r1, r2)
	assert.Same(t, r1, GetRegistry())
}

func TestCacheRecorder(t *testing.T) {
	InitRegistry()
	rec := CacheRecorder{}

	before := testutil.ToFloat64(CacheMissesTotal)
	rec.CacheMiss()
	assert.Equal(t, before+1, testutil.ToFloat64(CacheMissesTotal))

	rec.CacheHit("hot")
	assert.GreaterOrEqual(t, testutil.ToFloat64(CacheHitsTotal.WithLabelValues("hot")), 1.0)

	waits := testutil.ToFloat64(StampedeWaitsTotal)
	rec.StampedeWait()
	assert.Equal(t, waits+1, testutil.ToFloat64(StampedeWaitsTotal))
}

func TestRecordRequest(t *testing.T) {
	InitRegistry()
	RecordRequest("/api/session", "200", 0.05)
	require.GreaterOrEqual(t, testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/session", "200")), 1.0)
}
