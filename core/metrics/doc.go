// Package metrics exports broadcaster and listener counters to Prometheus.
//
// Collectors read the Stats snapshot of the component on every scrape, so nothing
// has to be updated on the hot path.
//
//	reg := metrics.NewRegistry()
//	reg.MustRegister(
//		metrics.NewBroadcastCollector("events", b),
//		metrics.NewListenerCollector(l1),
//	)
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
