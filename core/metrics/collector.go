package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/fanout/pkg/broadcast"
	"github.com/dmitrymomot/fanout/pkg/listener"
)

const namespace = "fanout"

// BroadcastSource is satisfied by *broadcast.Broadcaster[T] for any T.
type BroadcastSource interface {
	Stats() broadcast.Stats
}

// ListenerSource is satisfied by *listener.Listener.
type ListenerSource interface {
	ID() string
	Stats() listener.Stats
}

// BroadcastCollector exposes broadcast.Stats.
type BroadcastCollector struct {
	src BroadcastSource

	subscribers *prometheus.Desc
	published   *prometheus.Desc
	delivered   *prometheus.Desc
	failed      *prometheus.Desc
	pruned      *prometheus.Desc
	closed      *prometheus.Desc
}

// NewBroadcastCollector labels every series with broadcaster=name. Collectors for
// different broadcasters can share a registry as long as their names differ.
func NewBroadcastCollector(name string, src BroadcastSource) *BroadcastCollector {
	labels := prometheus.Labels{"broadcaster": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "broadcast", metric), help, nil, labels)
	}

	return &BroadcastCollector{
		src:         src,
		subscribers: desc("subscribers", "Registered producer-ends."),
		published:   desc("published_total", "Publish calls."),
		delivered:   desc("delivered_total", "Messages enqueued to subscribers."),
		failed:      desc("failed_total", "Deliveries rejected by a closed receiver."),
		pruned:      desc("pruned_total", "Dead producer-ends removed."),
		closed:      desc("closed", "1 once the broadcaster is closed."),
	}
}

func (c *BroadcastCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.subscribers
	ch <- c.published
	ch <- c.delivered
	ch <- c.failed
	ch <- c.pruned
	ch <- c.closed
}

func (c *BroadcastCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(s.Subscribers))
	ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(s.Published))
	ch <- prometheus.MustNewConstMetric(c.delivered, prometheus.CounterValue, float64(s.Delivered))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.Failed))
	ch <- prometheus.MustNewConstMetric(c.pruned, prometheus.CounterValue, float64(s.Pruned))
	ch <- prometheus.MustNewConstMetric(c.closed, prometheus.GaugeValue, boolValue(s.Closed))
}

// ListenerCollector exposes listener.Stats, labelled with the listener ID.
type ListenerCollector struct {
	src ListenerSource

	events  *prometheus.Desc
	running *prometheus.Desc
}

func NewListenerCollector(src ListenerSource) *ListenerCollector {
	labels := prometheus.Labels{"listener": src.ID()}

	return &ListenerCollector{
		src: src,
		events: prometheus.NewDesc(prometheus.BuildFQName(namespace, "listener", "events_total"),
			"Events dispatched by kind.", []string{"kind"}, labels),
		running: prometheus.NewDesc(prometheus.BuildFQName(namespace, "listener", "running"),
			"1 while the dispatch loop runs.", nil, labels),
	}
}

func (c *ListenerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.events
	ch <- c.running
}

func (c *ListenerCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	for kind, n := range map[string]int64{
		"pass":                s.Pass,
		"fail":                s.Fail,
		"continue":            s.Continue,
		"processing_finished": s.Finished,
		"unrecognized":        s.Unrecognized,
	} {
		ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(n), kind)
	}
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, boolValue(s.Running))
}

// NewRegistry returns an empty registry, without the process and Go collectors
// of the default one.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Handler serves reg in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
