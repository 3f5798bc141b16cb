package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// registering twice is harmless
	require.NoError(t, Register(reg))

	IdentifiersAllocated.WithLabelValues("card_id").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(IdentifiersAllocated.WithLabelValues("card_id")), 1.0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "invoicing_identifiers_allocated_total")
}
