package metric

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// KeyCountFunc reports the number of keys per key space.
type KeyCountFunc func() map[string]int

// Collector reports key counts, sampled on every scrape.
type Collector struct {
	keys   *prometheus.Desc
	source KeyCountFunc
}

// NewCollector creates a collector over source.
func NewCollector(source KeyCountFunc) *Collector {
	return &Collector{
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "storage", "keys"),
			"Number of keys, by key space",
			[]string{"space"}, nil,
		),
		source: source,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counts := c.source()
	spaces := make([]string, 0, len(counts))
	for s := range counts {
		spaces = append(spaces, s)
	}
	sort.Strings(spaces)

	for _, s := range spaces {
		ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(counts[s]), s)
	}
}
