package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mihonorg/internal/config"
	"mihonorg/internal/failure"
	"mihonorg/internal/report"
)

type rootFlags struct {
	configPath       string
	sourcePath       string
	imagesPerChapter int
	inPlace          bool
	dryRun           bool
	usage            bool
	logLevel         string
	logFormat        string
	reportPath       string
	metricsPath      string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "mihonorg",
		Short: "Organize manga image folders into Mihon chapters",
		Long: `mihonorg splits the images of every title folder under a source path into
"Chapter NNN" directories that Mihon can read as a local source.

Run with --dry-run first to preview the plan, or --usage for the full guide.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.usage {
				_, err := fmt.Fprint(cmd.OutOrStdout(), usageText)
				return err
			}
			if cmd.Flags().Changed("images-per-chapter") && flags.imagesPerChapter < 1 {
				return failure.Wrap(failure.ErrValidation, "cli", "parse flags",
					fmt.Sprintf("--images-per-chapter must be at least 1, got %d", flags.imagesPerChapter), nil)
			}
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runOrganize(cmd, cfg)
		},
	}

	f := rootCmd.Flags()
	f.StringVarP(&flags.sourcePath, "source-path", "s", "", "Directory containing one folder per title (default: current directory)")
	f.IntVarP(&flags.imagesPerChapter, "images-per-chapter", "i", 0, "Images per chapter (default: all images in one chapter)")
	f.BoolVar(&flags.inPlace, "in-place", false, "Reorganize title folders in place after backing them up to _Backup")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the plan without changing anything")
	f.BoolVar(&flags.usage, "usage", false, "Print the full usage guide and exit")
	f.StringVar(&flags.reportPath, "report", "", "Write a run report (.json, .yaml, .yml or .toml)")
	f.StringVar(&flags.metricsPath, "metrics-file", "", "Write Prometheus metrics in textfile collector format")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")

	rootCmd.AddCommand(newConfigCommand(flags))
	return rootCmd
}

// resolveConfig loads the configuration file and environment, then applies
// every flag the user set explicitly.
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(flags.configPath))
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("source-path") {
		cfg.Paths.SourcePath = flags.sourcePath
	}
	if changed("images-per-chapter") {
		size := flags.imagesPerChapter
		cfg.Organize.ImagesPerChapter = &size
	}
	if changed("in-place") {
		cfg.Organize.InPlace = flags.inPlace
	}
	if changed("dry-run") {
		cfg.Organize.DryRun = flags.dryRun
	}
	if changed("report") {
		cfg.Output.ReportPath = flags.reportPath
	}
	if changed("metrics-file") {
		cfg.Output.MetricsPath = flags.metricsPath
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(flags.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(flags.logFormat))
	}

	if strings.TrimSpace(cfg.Paths.SourcePath) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		cfg.Paths.SourcePath = wd
	}
	for _, p := range []*string{&cfg.Paths.SourcePath, &cfg.Output.ReportPath, &cfg.Output.MetricsPath} {
		if *p == "" {
			continue
		}
		expanded, err := config.ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Output.ReportPath != "" {
		if _, err := report.FormatFor(cfg.Output.ReportPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
