package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestTierAttempts(t *testing.T) {
	c := TierAttempts.WithLabelValues("structured", OutcomeSuccess)
	before := counterValue(t, c)
	c.Inc()
	assert.Equal(t, before+1, counterValue(t, c))
}

func TestRecoveryStrategy(t *testing.T) {
	c := RecoveryStrategy.WithLabelValues("salvage")
	before := counterValue(t, c)
	c.Add(2)
	assert.Equal(t, before+2, counterValue(t, c))
}
