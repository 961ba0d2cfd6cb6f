package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrdersCreated.WithLabelValues("COD").Inc()
	m.Quotes.WithLabelValues("preview").Add(2)
	m.GrandTotal.Observe(3493)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated.WithLabelValues("COD")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Quotes.WithLabelValues("preview")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}
