package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) applyEnv() error {
	if value, ok := lookupEnv(envSourcePath); ok {
		c.Paths.SourcePath = value
	}
	if value, ok := lookupEnv(envImagesPerChapter); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", envImagesPerChapter, value)
		}
		c.Organize.ImagesPerChapter = &n
	}
	if value, ok := lookupEnv(envMaxCollisionTries); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", envMaxCollisionTries, value)
		}
		c.Organize.MaxCollisionAttempts = n
	}
	if value, ok := lookupEnv(envImageExtensionList); ok {
		c.Organize.ImageExtensions = strings.Split(value, ",")
	}
	if value, ok := lookupEnv(envLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv(envLogFormat); ok {
		c.Logging.Format = value
	}
	if value, ok := lookupEnv(envLogFile); ok {
		c.Logging.File = value
	}
	if value, ok := lookupEnv(envReportPath); ok {
		c.Output.ReportPath = value
	}
	if value, ok := lookupEnv(envMetricsPath); ok {
		c.Output.MetricsPath = value
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourcePath, err = expandPath(strings.TrimSpace(c.Paths.SourcePath)); err != nil {
		return fmt.Errorf("paths.source_path: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Output.ReportPath, err = expandPath(strings.TrimSpace(c.Output.ReportPath)); err != nil {
		return fmt.Errorf("output.report_path: %w", err)
	}
	if c.Output.MetricsPath, err = expandPath(strings.TrimSpace(c.Output.MetricsPath)); err != nil {
		return fmt.Errorf("output.metrics_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOrganize() {
	exts := make([]string, 0, len(c.Organize.ImageExtensions))
	seen := map[string]struct{}{}
	for _, ext := range c.Organize.ImageExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Organize.ImageExtensions = exts
	if c.Organize.MaxCollisionAttempts == 0 {
		c.Organize.MaxCollisionAttempts = defaultMaxCollisions
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
