package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	DrawAttemptTotal           = "draw_attempts_total"
	MissionCompletedTotal      = "mission_completed_total"
	TriggerFailureTotal        = "mission_trigger_failures_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		DrawAttemptTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DrawAttemptTotal,
			Help: "Count of all prize draw attempts by outcome",
		}, []string{"outcome"}),
		MissionCompletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MissionCompletedTotal,
			Help: "Count of all completed missions",
		}, []string{"mission_id"}),
		TriggerFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TriggerFailureTotal,
			Help: "Count of mission triggers which failed to apply",
		}, []string{"kind"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
