// Package metrics exposes the service's Prometheus instrumentation behind a
// private registry so tests can create collectors without global state.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus metrics.
type Collector struct {
	reg *prometheus.Registry

	FeedFetches     *prometheus.CounterVec // label: feed (trip_updates|vehicles)
	FeedFetchErrors *prometheus.CounterVec
	FeedCacheHits   *prometheus.CounterVec
	FeedStaleServes *prometheus.CounterVec

	RoutesIndexed    prometheus.Gauge
	ArrivalsComputed prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_feed_fetches_total",
			Help: "Upstream live-feed fetch attempts.",
		}, []string{"feed"}),
		FeedFetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_feed_fetch_errors_total",
			Help: "Upstream live-feed fetches that failed.",
		}, []string{"feed"}),
		FeedCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_feed_cache_hits_total",
			Help: "Requests served from a fresh cached feed snapshot.",
		}, []string{"feed"}),
		FeedStaleServes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arrivals_feed_stale_serves_total",
			Help: "Requests served from an expired snapshot after a failed refresh.",
		}, []string{"feed"}),
		RoutesIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrivals_routes_indexed",
			Help: "Number of routes in the loaded index.",
		}),
		ArrivalsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrivals_predictions_total",
			Help: "Total arrival predictions emitted.",
		}),
	}

	reg.MustRegister(
		c.FeedFetches, c.FeedFetchErrors, c.FeedCacheHits, c.FeedStaleServes,
		c.RoutesIndexed, c.ArrivalsComputed,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
