package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordFetch("prices", "ok", 120*time.Millisecond)
	r.RecordFetch("prices", "rate_limited", 10*time.Millisecond)
	r.RecordFetch("prices", "ok", 80*time.Millisecond)
	r.RecordSnapshot(57, 2, 3*time.Second)
	r.RecordFallback("missing_credential")
	r.RecordError("kafka_publish")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues("prices", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("prices", "rate_limited")))
	assert.Equal(t, 57.0, testutil.ToFloat64(r.riskIndex))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.alerts))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("missing_credential")))

	n, err := testutil.GatherAndCount(reg, "risklens_snapshots_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
