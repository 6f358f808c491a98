package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ruledoc"

// WriteMetrics writes the tallies of a run to path in the Prometheus text
// exposition format, for pickup by a node-exporter textfile collector.
func WriteMetrics(path string, res *Result) error {
	reg := prometheus.NewRegistry()

	rulesBySet := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "rules",
		Help:      "Rules generated per rule set.",
	}, []string{"set"})
	rulesByTag := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "rules_by_tag",
		Help:      "Rules generated per tag.",
	}, []string{"tag"})
	rulesByVersion := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "rules_by_version",
		Help:      "Rules generated per introducing version.",
	}, []string{"version"})
	conflicts := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "description_conflicts",
		Help:      "Rule descriptions rejected while merging documentation files.",
	})
	duplicates := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "duplicate_rules",
		Help:      "Rule registrations rejected because the key was already registered.",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last run.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run completed.",
	})
	reg.MustRegister(rulesBySet, rulesByTag, rulesByVersion, conflicts, duplicates, duration, lastRun)

	for _, s := range res.Sets {
		rulesBySet.WithLabelValues(s.Name).Set(float64(len(s.Rules)))
	}
	for tag, n := range res.Stats.ByTag {
		rulesByTag.WithLabelValues(tag).Set(float64(n))
	}
	for version, n := range res.Stats.ByVersion {
		rulesByVersion.WithLabelValues(version).Set(float64(n))
	}
	conflicts.Set(float64(len(res.Conflicts)))
	duplicates.Set(float64(len(res.Duplicates)))
	duration.Set(res.Duration.Seconds())
	lastRun.SetToCurrentTime()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
