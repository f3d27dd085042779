// SPDX-License-Identifier: MIT

// Package metrics exposes prometheus instrumentation for the catalog daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refresh pipeline metrics
	refreshRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drivecat_refresh_runs_total",
		Help: "Refresh runs by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	refreshFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drivecat_refresh_failures_total",
		Help: "Refresh failures by stage",
	}, []string{"stage"}) // stage=listing|persist|gate

	foldersDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drivecat_folders_discovered",
		Help: "Folder entries seen in the last remote listing",
	})

	enrichmentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drivecat_enrichment_total",
		Help: "Enrichment lookups by outcome",
	}, []string{"outcome"}) // outcome=matched|unmatched|error

	verificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivecat_verification_failures_total",
		Help: "Post-upload read-back failures (non-fatal)",
	})

	// Read path metrics
	catalogRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drivecat_catalog_requests_total",
		Help: "Catalog listing requests served",
	})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drivecat_cache_lookups_total",
		Help: "Document cache lookups by result",
	}, []string{"result"}) // result=hit|miss
)

// RecordRefreshRun records the outcome of one refresh run.
func RecordRefreshRun(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	refreshRunsTotal.WithLabelValues(outcome).Inc()
}

// IncRefreshFailure records a fatal refresh failure for a stage.
func IncRefreshFailure(stage string) {
	refreshFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordFoldersDiscovered records the number of folder entries in a listing.
func RecordFoldersDiscovered(count int) {
	foldersDiscovered.Set(float64(count))
}

// RecordEnrichment records the outcome of one enrichment lookup.
func RecordEnrichment(outcome string) {
	enrichmentTotal.WithLabelValues(outcome).Inc()
}

// IncVerificationFailure records a failed post-upload read-back.
func IncVerificationFailure() {
	verificationFailures.Inc()
}

// IncCatalogRequest records one served listing request.
func IncCatalogRequest() {
	catalogRequestsTotal.Inc()
}

// RecordCacheLookup records a document cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "hit"
	if !hit {
		result = "miss"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
