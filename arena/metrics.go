package arena

import "github.com/prometheus/client_golang/prometheus"

// metricSet is the prometheus.Collector wrapper an arena optionally
// registers at creation (spec.md §6, Config.RegisterCollector). It reports
// the same numbers diagnostics.go exposes as plain Go calls, so embedding
// an arena in a process that already scrapes Prometheus costs nothing
// beyond turning the flag on.
type metricSet struct {
	a *Arena

	totalAllocated *prometheus.Desc
	liveCount      *prometheus.Desc
	deadCount      *prometheus.Desc
	fragmentation  *prometheus.Desc
}

func newMetricSet(a *Arena) *metricSet {
	labels := prometheus.Labels{"arena": a.id.String()}
	m := &metricSet{
		a: a,
		totalAllocated: prometheus.NewDesc(
			"varena_total_allocated_bytes",
			"Cumulative bytes carved out of this arena's block chain since creation or the last reset.",
			nil, labels,
		),
		liveCount: prometheus.NewDesc(
			"varena_live_handles",
			"Number of handle-table slots currently holding a live entry.",
			nil, labels,
		),
		deadCount: prometheus.NewDesc(
			"varena_dead_handles",
			"Number of handle-table slots marked dead but not yet recycled.",
			nil, labels,
		),
		fragmentation: prometheus.NewDesc(
			"varena_fragmentation_ratio",
			"dead_bytes / (live_bytes + dead_bytes) for this arena.",
			nil, labels,
		),
	}
	prometheus.MustRegister(m)
	return m
}

// Describe implements prometheus.Collector.
func (m *metricSet) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.totalAllocated
	ch <- m.liveCount
	ch <- m.deadCount
	ch <- m.fragmentation
}

// Collect implements prometheus.Collector.
func (m *metricSet) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(m.totalAllocated, prometheus.CounterValue, float64(m.a.TotalAllocated()))
	ch <- prometheus.MustNewConstMetric(m.liveCount, prometheus.GaugeValue, float64(m.a.LiveCount()))
	ch <- prometheus.MustNewConstMetric(m.deadCount, prometheus.GaugeValue, float64(m.a.DeadCount()))
	ch <- prometheus.MustNewConstMetric(m.fragmentation, prometheus.GaugeValue, m.a.FragmentationRatio())
}
