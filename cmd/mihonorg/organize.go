package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mihonorg/internal/config"
	"mihonorg/internal/failure"
	"mihonorg/internal/fsys"
	"mihonorg/internal/library"
	"mihonorg/internal/logging"
	"mihonorg/internal/metrics"
	"mihonorg/internal/organizer"
	"mihonorg/internal/preflight"
	"mihonorg/internal/report"
	"mihonorg/internal/runlock"
)

func runOrganize(cmd *cobra.Command, cfg *config.Config) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "cli")

	if err := preflight.FirstFailure(preflight.RunAll(cfg)); err != nil {
		return logFatal(logger, "preflight check failed", "preflight_failed",
			"check that the source path exists and is writable", err)
	}

	source := cfg.Paths.SourcePath
	if !cfg.Organize.DryRun {
		lock, err := runlock.Acquire(source)
		if err != nil {
			return logFatal(logger, "source already in use", "lock_unavailable",
				"wait for the other mihonorg run to finish", err)
		}
		defer func() {
			if releaseErr := lock.Release(); releaseErr != nil {
				logging.WarnWithContext(logger, "lock release failed", "lock_release_failed",
					logging.Error(releaseErr),
					logging.String(logging.FieldPath, runlock.Path(source)),
					logging.String(logging.FieldImpact, "stale lock file left in source directory"),
				)
			}
		}()
	}

	opts := organizer.Options{
		ImagesPerChapter:     cfg.Organize.ChapterSize(),
		InPlace:              cfg.Organize.InPlace,
		DryRun:               cfg.Organize.DryRun,
		MaxCollisionAttempts: cfg.Organize.MaxCollisionAttempts,
		RunID:                uuid.NewString(),
	}
	if len(cfg.Organize.ImageExtensions) > 0 {
		opts.Classifier = library.NewClassifier(cfg.Organize.ImageExtensions)
	}

	out := cmd.OutOrStdout()
	interactive := shouldColorize(out)
	observers := []organizer.Observer{newConsolePrinter(out, interactive)}
	var runMetrics *metrics.Metrics
	if cfg.Output.MetricsPath != "" {
		runMetrics = metrics.New(opts)
		observers = append(observers, runMetrics)
	}
	opts.Observer = organizer.MultiObserver(observers...)

	result, runErr := organizer.New(fsys.OS{}, opts, logger).Run(cmd.Context(), source)

	if summary := renderSummary(result); summary != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, summary)
	}
	if result != nil && result.DryRun {
		fmt.Fprintln(out, "[DRY RUN] No changes were made.")
	}

	if runErr != nil {
		logFatal(logger, "organize run aborted", "run_aborted",
			"the report lists what was completed before the stop", runErr)
	}
	return errors.Join(runErr, writeOutputs(cfg, result, runErr, runMetrics, logger))
}

// logFatal records an error that ends the run and returns it unchanged.
func logFatal(logger *slog.Logger, msg, eventType, hint string, err error) error {
	logging.ErrorWithContext(logger, msg, eventType,
		logging.Error(err),
		logging.String(logging.FieldErrorKind, failure.Kind(err)),
		logging.String(logging.FieldErrorHint, hint),
	)
	return err
}

func writeOutputs(cfg *config.Config, result *organizer.Report, runErr error, runMetrics *metrics.Metrics, logger *slog.Logger) error {
	if result == nil {
		return nil
	}
	var errs []error
	if path := cfg.Output.ReportPath; path != "" {
		if err := report.Write(path, result); err != nil {
			errs = append(errs, logFatal(logger, "report not written", "report_write_failed",
				"check that the report directory is writable", err))
		} else {
			logger.Info("report written", logging.String(logging.FieldPath, path))
		}
	}
	if runMetrics != nil {
		runMetrics.RecordRun(result, runErr)
		if err := runMetrics.WriteTextfile(cfg.Output.MetricsPath); err != nil {
			errs = append(errs, logFatal(logger, "metrics not written", "metrics_write_failed",
				"check that the metrics directory is writable", err))
		}
	}
	return errors.Join(errs...)
}
