package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "compass_http_requests_total",
	Help: "Total number of API requests",
}, []string{"method", "route", "status"})

var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "compass_http_request_duration_seconds",
	Help:    "API request latency",
	Buckets: prometheus.DefBuckets,
}, []string{"route"})

var DataSourceMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "compass_datasource_mode",
	Help: "Data source in use (1 for the active mode)",
}, []string{"mode"})

var AssistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "compass_assistant_requests_total",
	Help: "Assistant calls by operation, backend and result",
}, []string{"operation", "backend", "result"})

var PhaseRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "compass_setup_phase_runs_total",
	Help: "Database setup phases run, by outcome",
}, []string{"phase", "outcome"})

var WorkflowRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "compass_workflow_runs_total",
	Help: "Automation workflows run, by result",
}, []string{"workflow", "result"})

// SetDataSourceMode marks mode as the active data source
func SetDataSourceMode(active string, modes ...string) {
	for _, m := range modes {
		v := 0.0
		if m == active {
			v = 1
		}
		DataSourceMode.WithLabelValues(m).Set(v)
	}
}

// Result renders a success flag as a label value
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
