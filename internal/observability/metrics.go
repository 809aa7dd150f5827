package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_requests_total",
			Help: "Total HTTP requests by response code",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "creative_request_duration_seconds",
		Help:    "Request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "creative_in_flight",
		Help: "In-flight HTTP requests",
	})
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_decisions_total",
			Help: "Evaluated creatives by decision status",
		}, []string{"status"},
	)
	InputErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_input_errors_total",
			Help: "Rejected uploads by structural error kind",
		}, []string{"kind"},
	)
	KeywordReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creative_keyword_reloads_total",
			Help: "Keyword table reload attempts by result",
		}, []string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, Latency, InFlight, DecisionsTotal, InputErrors, KeywordReloads)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
