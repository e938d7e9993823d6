// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "familytrips_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "familytrips_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "familytrips_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	ItineraryMatchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "familytrips_itinerary_match_results",
			Help:    "Number of itineraries returned per match",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"personalized"},
	)

	PreferenceConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "familytrips_preference_conflicts_total",
			Help: "Preference writes rejected because of a stale version",
		},
	)

	CatalogImportedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "familytrips_catalog_imported_itineraries_total",
			Help: "Itineraries written by catalog imports",
		},
	)
)

// RecordAPIRequest records the outcome of one API request
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// TrackActiveRequest increments or decrements the in-flight request gauge
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordMatch records the size of a matcher result
func RecordMatch(personalized bool, results int) {
	ItineraryMatchResults.WithLabelValues(strconv.FormatBool(personalized)).Observe(float64(results))
}

// RegisterDBStats exports connection pool statistics for db
func RegisterDBStats(db *sql.DB) error {
	return prometheus.Register(collectors.NewDBStatsCollector(db, "familytrips"))
}
