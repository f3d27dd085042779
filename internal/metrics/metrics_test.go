// SPDX-License-Identifier: MIT
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
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordEnrichmentOutcomes(t *testing.T) {
	before := counterValue(t, enrichmentTotal.WithLabelValues("matched"))

	RecordEnrichment("matched")
	RecordEnrichment("matched")
	RecordEnrichment("error")

	assert.Equal(t, before+2, counterValue(t, enrichmentTotal.WithLabelValues("matched")))
	assert.GreaterOrEqual(t, counterValue(t, enrichmentTotal.WithLabelValues("error")), float64(1))
}

func TestRecordRefreshRun(t *testing.T) {
	beforeOK := counterValue(t, refreshRunsTotal.WithLabelValues("success"))
	beforeFail := counterValue(t, refreshRunsTotal.WithLabelValues("failure"))

	RecordRefreshRun(true)
	RecordRefreshRun(false)

	assert.Equal(t, beforeOK+1, counterValue(t, refreshRunsTotal.WithLabelValues("success")))
	assert.Equal(t, beforeFail+1, counterValue(t, refreshRunsTotal.WithLabelValues("failure")))
}

func TestRecordFoldersDiscovered(t *testing.T) {
	RecordFoldersDiscovered(25)

	var m dto.Metric
	require.NoError(t, foldersDiscovered.Write(&m))
	assert.Equal(t, float64(25), m.GetGauge().GetValue())
}

func TestRecordCacheLookup(t *testing.T) {
	before := counterValue(t, cacheLookupsTotal.WithLabelValues("miss"))
	RecordCacheLookup(false)
	assert.Equal(t, before+1, counterValue(t, cacheLookupsTotal.WithLabelValues("miss")))
}
