package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "coopweigh_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	loginTotal *prometheus.CounterVec

	weighingsCreated prometheus.Counter
	weighingGrams    prometheus.Histogram

	leaderboardTotal *prometheus.CounterVec
)

// Init registers the service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status",
			},
			[]string{"method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		loginTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "logins_total",
				Help: "Total login attempts by result",
			},
			[]string{"result"},
		)

		weighingsCreated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "weighings_created_total",
				Help: "Total recorded weighings",
			},
		)
		weighingGrams = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "weighing_weight_grams",
				Help:    "Recorded weighing weight in grams",
				Buckets: prometheus.ExponentialBuckets(100, 4, 8),
			},
		)

		leaderboardTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "leaderboard_requests_total",
				Help: "Total leaderboard queries by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			loginTotal,
			weighingsCreated,
			weighingGrams,
			leaderboardTotal,
		)
	})
}

// ObserveHTTPRequest records one handled request.
func ObserveHTTPRequest(method string, status int, elapsed time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveLogin records a login attempt.
func ObserveLogin(ok bool) {
	if loginTotal == nil {
		return
	}
	loginTotal.WithLabelValues(resultLabel(ok)).Inc()
}

// ObserveWeighingCreated records a new ledger entry.
func ObserveWeighingCreated(weightGrams int64) {
	if weighingsCreated == nil {
		return
	}
	weighingsCreated.Inc()
	weighingGrams.Observe(float64(weightGrams))
}

// ObserveLeaderboard records a leaderboard query.
func ObserveLeaderboard(ok bool) {
	if leaderboardTotal == nil {
		return
	}
	leaderboardTotal.WithLabelValues(resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return resultSuccess
	}
	return resultError
}
