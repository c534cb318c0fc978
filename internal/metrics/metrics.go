// Package metrics exposes organizer runs as Prometheus metrics written to a
// node_exporter textfile collector file.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"mihonorg/internal/failure"
	"mihonorg/internal/organizer"
)

// Metrics bundles the collectors for one run on a dedicated registry.
type Metrics struct {
	Registry           *prometheus.Registry
	ItemsPlaced        prometheus.Counter
	ItemFailures       *prometheus.CounterVec
	Collections        *prometheus.CounterVec
	Chapters           prometheus.Counter
	DirectoriesRemoved prometheus.Counter
	LastRunTimestamp   prometheus.Gauge
	LastRunDuration    prometheus.Gauge
	LastRunSuccess     prometheus.Gauge
}

// New registers all collectors, labelled with the run's mode and dry-run flag.
func New(opts organizer.Options) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{
		"mode":    string(opts.Mode()),
		"dry_run": strconv.FormatBool(opts.DryRun),
	}

	m := &Metrics{
		Registry: registry,
		ItemsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mihonorg_items_placed_total",
			Help:        "Images placed into chapter directories.",
			ConstLabels: labels,
		}),
		ItemFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mihonorg_item_failures_total",
			Help:        "Images that could not be copied or moved, by error kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		Collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "mihonorg_collections_total",
			Help:        "Collections processed, by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		Chapters: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mihonorg_chapters_total",
			Help:        "Chapter directories planned.",
			ConstLabels: labels,
		}),
		DirectoriesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "mihonorg_directories_removed_total",
			Help:        "Empty directories pruned after in-place runs.",
			ConstLabels: labels,
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mihonorg_last_run_timestamp_seconds",
			Help:        "Unix time the last run finished.",
			ConstLabels: labels,
		}),
		LastRunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mihonorg_last_run_duration_seconds",
			Help:        "Wall time of the last run.",
			ConstLabels: labels,
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mihonorg_last_run_success",
			Help:        "1 when the last run finished without error or recorded failure.",
			ConstLabels: labels,
		}),
	}
	registry.MustRegister(
		m.ItemsPlaced, m.ItemFailures, m.Collections, m.Chapters,
		m.DirectoriesRemoved, m.LastRunTimestamp, m.LastRunDuration, m.LastRunSuccess,
	)
	return m
}

// Observe implements organizer.Observer.
func (m *Metrics) Observe(e organizer.Event) {
	if m == nil {
		return
	}
	switch e.Kind {
	case organizer.EventItemPlaced:
		m.ItemsPlaced.Inc()
	case organizer.EventItemFailed:
		m.ItemFailures.WithLabelValues(failure.Kind(e.Err)).Inc()
	case organizer.EventChaptersPlanned:
		m.Chapters.Add(float64(e.Total))
	case organizer.EventDirectoryRemoved:
		m.DirectoriesRemoved.Inc()
	case organizer.EventCollectionSkipped:
		m.Collections.WithLabelValues(string(e.Reason)).Inc()
	case organizer.EventCollectionCompleted:
		m.Collections.WithLabelValues("organized").Inc()
	}
}

// RecordRun sets the last-run gauges from the final report and run error.
func (m *Metrics) RecordRun(report *organizer.Report, runErr error) {
	if m == nil || report == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(report.FinishedAt.Unix()))
	m.LastRunDuration.Set(report.FinishedAt.Sub(report.StartedAt).Seconds())
	if runErr == nil && !report.Failed() {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
}

// WriteTextfile atomically writes the registry in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return failure.Wrap(failure.ErrFilesystem, "metrics", "write textfile", path, err)
	}
	return nil
}
