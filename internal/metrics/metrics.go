// Package metrics exposes Prometheus collectors for site activity.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordActivity(kind string)
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	activity   *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warbler_activity_total",
			Help: "Completed user actions by kind.",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warbler_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.activity, c.httpStatus)
	return c
}

// RecordActivity counts one action of the given kind, e.g. "message.created".
func (c *Collector) RecordActivity(kind string) {
	c.activity.WithLabelValues(kind).Inc()
}

// RecordHTTPStatus counts one response with the given status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordActivity(string) {}
func (Nop) RecordHTTPStatus(int)  {}
