package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnregisteredMetrics_NotRegistered(t *testing.T) {
	m := NewUnregisteredMetrics()

	// Registering on a fresh registry succeeds only if nothing claimed them yet.
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(m.Commits))
	require.NoError(t, reg.Register(m.CountriesLoaded))

	// A second set does not collide with the first.
	other := NewUnregisteredMetrics()
	other.CountriesLoaded.Set(3)
	assert.InDelta(t, 0, testutil.ToFloat64(m.CountriesLoaded), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(other.CountriesLoaded), 0)
}
