package generator

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "makesite"

// buildMetrics records per-build counters on a private registry so repeated
// builds in one process never collide.
type buildMetrics struct {
	registry      *prom.Registry
	pagesRendered *prom.CounterVec
	listsRendered *prom.CounterVec
	assetsCopied  prom.Counter
	buildDuration prom.Histogram
}

func newBuildMetrics() *buildMetrics {
	m := &buildMetrics{
		registry: prom.NewRegistry(),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by collection",
		}, []string{"collection"}),
		listsRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "lists_rendered_total",
			Help:      "List and feed documents rendered by list name",
		}, []string{"list"}),
		assetsCopied: prom.NewCounter(prom.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assets_copied_total",
			Help:      "Static assets copied into the output directory",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.pagesRendered, m.listsRendered, m.assetsCopied, m.buildDuration)
	return m
}

func (m *buildMetrics) pageRendered(collection string) {
	if m == nil {
		return
	}
	m.pagesRendered.WithLabelValues(collection).Inc()
}

func (m *buildMetrics) listRendered(list string) {
	if m == nil {
		return
	}
	m.listsRendered.WithLabelValues(list).Inc()
}

func (m *buildMetrics) assetCopied() {
	if m == nil {
		return
	}
	m.assetsCopied.Inc()
}

func (m *buildMetrics) observeBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.Observe(d.Seconds())
}

// writeTextfile dumps the registry in the Prometheus text format, ready for
// the node exporter textfile collector.
func (m *buildMetrics) writeTextfile(filename string) error {
	if m == nil || filename == "" {
		return nil
	}
	if err := prom.WriteToTextfile(filename, m.registry); err != nil {
		return fmt.Errorf("generator: write metrics %s: %w", filename, err)
	}
	return nil
}
