package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's Prometheus registry. A nil *Recorder is
// valid and records nothing, so callers never need to guard it.
type Recorder struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	gameUpdates    *prometheus.CounterVec
	recordChanges  prometheus.Counter
	reminders      *prometheus.CounterVec
	liveClients    prometheus.Gauge
	liveBroadcasts prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intramural_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intramural_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		gameUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intramural_game_updates_total",
			Help: "Game update transactions by outcome.",
		}, []string{"outcome"}),
		recordChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intramural_team_record_adjustments_total",
			Help: "Win/loss counter rows adjusted by score reconciliation.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intramural_reminders_delivered_total",
			Help: "Reminder deliveries by outcome.",
		}, []string{"outcome"}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "intramural_live_clients",
			Help: "Connected live score feed clients.",
		}),
		liveBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intramural_live_broadcasts_total",
			Help: "Messages published to live score feed rooms.",
		}),
	}
	reg.MustRegister(r.httpRequests, r.httpDuration, r.gameUpdates, r.recordChanges,
		r.reminders, r.liveClients, r.liveBroadcasts)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (r *Recorder) RecordGameUpdate(err error) {
	if r == nil {
		return
	}
	r.gameUpdates.WithLabelValues(outcome(err)).Inc()
}

// RecordRecordAdjustments counts team rows touched by a reconciliation.
func (r *Recorder) RecordRecordAdjustments(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.recordChanges.Add(float64(n))
}

func (r *Recorder) RecordReminderDelivery(err error) {
	if r == nil {
		return
	}
	r.reminders.WithLabelValues(outcome(err)).Inc()
}

func (r *Recorder) SetLiveClients(n int) {
	if r == nil {
		return
	}
	r.liveClients.Set(float64(n))
}

func (r *Recorder) RecordLiveBroadcast() {
	if r == nil {
		return
	}
	r.liveBroadcasts.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
