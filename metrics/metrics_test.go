package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("disabled returns noop", func(t *testing.T) {
		meter, err := New(&Config{Enabled: false})
		require.NoError(t, err)

		c, err := meter.Counter("noop_total", "noop counter")
		require.NoError(t, err)
		c.Inc(context.Background())
		assert.NoError(t, meter.Shutdown(context.Background()))
	})

	t.Run("enabled without server", func(t *testing.T) {
		meter, err := New(NewDevDefaultConfig("metrics-test"))
		require.NoError(t, err)
		defer meter.Shutdown(context.Background())

		ctx := context.Background()

		c, err := meter.Counter("requests_total", "request counter")
		require.NoError(t, err)
		c.Inc(ctx, L("id", "a"))
		c.Add(ctx, 5, L("id", "b"))

		g, err := meter.Gauge("active", "active gauge")
		require.NoError(t, err)
		g.Set(ctx, 3)
		g.Inc(ctx)
		g.Dec(ctx)

		h, err := meter.Histogram("duration_seconds", "duration", WithUnit("s"))
		require.NoError(t, err)
		h.Record(ctx, 0.25, L("outcome", "success"))
	})
}

func TestGaugeIncDec(t *testing.T) {
	meter, err := New(NewDevDefaultConfig("gauge-test"))
	require.NoError(t, err)
	defer meter.Shutdown(context.Background())

	g, err := meter.Gauge("conn_count", "connection count")
	require.NoError(t, err)

	ctx := context.Background()
	g.Inc(ctx, L("node", "a"))
	g.Inc(ctx, L("node", "a"))
	g.Dec(ctx, L("node", "a"))

	impl, ok := g.(*gaugeImpl)
	require.True(t, ok)
	impl.mu.Lock()
	defer impl.mu.Unlock()
	assert.Equal(t, 1.0, impl.values[labelKey([]Label{L("node", "a")})])
}
