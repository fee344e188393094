package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_requests_total",
		Help: "Total API requests by resource",
	}, []string{"resource"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "landscape_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	DemographicsRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_demographics_requests_total",
		Help: "Total demographics fetches",
	})
	DemographicsDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "landscape_demographics_duration_ms",
		Help:    "Demographics fetch duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	SnapshotHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_snapshot_hits_total",
		Help: "Total project snapshot cache hits",
	})
	SnapshotMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_snapshot_misses_total",
		Help: "Total project snapshot cache misses",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_redis_misses_total",
		Help: "Total redis cache misses",
	})
	GeocodeRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_geocode_requests_total",
		Help: "Total geocoder REST requests",
	})
	GeocodeFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_geocode_fail_total",
		Help: "Total geocoder REST failures",
	})
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "landscape_geocode_duration_ms",
		Help:    "Geocoder REST call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	BlockGroupQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "landscape_blockgroup_queries_total",
		Help: "Total block-group boundary queries",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(DemographicsRequestsTotal)
	prometheus.MustRegister(DemographicsDurationMs)
	prometheus.MustRegister(SnapshotHitsTotal)
	prometheus.MustRegister(SnapshotMissesTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(BlockGroupQueriesTotal)
}

// Handler exposes registered metrics for Prometheus scrapes; mounted at
// /metrics by the main entrypoint.
func Handler() http.Handler { return promhttp.Handler() }
