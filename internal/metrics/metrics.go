package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gamehub_http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamehub_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	GameResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gamehub_game_results_total", Help: "Recorded match results"},
		[]string{"mode", "result", "counted"},
	)
	ChatMessagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gamehub_chat_messages_total", Help: "Chat messages sent"},
	)
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "gamehub_registrations_total", Help: "Accounts created"},
	)
)

// Register adds every collector to reg. Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		GameResultsTotal,
		ChatMessagesTotal,
		RegistrationsTotal,
	)
}

func ObserveGameResult(mode, result string, counted bool) {
	GameResultsTotal.WithLabelValues(mode, result, strconv.FormatBool(counted)).Inc()
}
