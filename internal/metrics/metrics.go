// Package metrics wires the endpoint's two instrumentation surfaces: a
// statsd statter built from the resolved settings, and Prometheus
// collectors registered with the global registry so importing this
// package in main.go is enough to expose them on /metrics.
//
// Statsd emission is disabled when `statsd_host` is absent; callers get a
// no-op statter and never need to nil-check.
package metrics

import (
	"net"
	"strconv"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mozilla-services/autoendpoint/internal/settings"
)

var (
	HeartbeatTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heartbeat_checks_total",
			Help: "Cumulative number of __heartbeat__ checks served.",
		})

	HeartbeatFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heartbeat_failures_total",
			Help: "Cumulative number of __heartbeat__ checks that found the database unreachable.",
		})
)

func init() {
	prometheus.MustRegister(
		HeartbeatTotal,
		HeartbeatFailuresTotal,
	)
}

// New returns the process statter.  statsd_label prefixes every metric
// name; a nil statsd_host disables emission entirely.
func New(s *settings.Settings) (statsd.Statter, error) {
	if s.StatsdHost == nil {
		// A nil *Client is the library's documented no-op Statter: every
		// method nil-checks the receiver and returns without emitting.
		var noop *statsd.Client
		return noop, nil
	}

	addr := net.JoinHostPort(*s.StatsdHost, strconv.Itoa(int(s.StatsdPort)))
	return statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address: addr,
		Prefix:  s.StatsdLabel,
	})
}
