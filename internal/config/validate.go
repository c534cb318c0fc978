package config

import (
	"errors"
	"fmt"
	"strings"

	"mihonorg/internal/failure"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOrganize(); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "config", "validate", "", err)
	}
	if err := c.validateLogging(); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "config", "validate", "", err)
	}
	return nil
}

func (c *Config) validateOrganize() error {
	if size := c.Organize.ImagesPerChapter; size != nil {
		if *size < 1 {
			return fmt.Errorf("organize.images_per_chapter must be at least 1 (omit it for a single chapter), got %d", *size)
		}
		if *size > maxImagesPerChapter {
			return fmt.Errorf("organize.images_per_chapter must not exceed %d", maxImagesPerChapter)
		}
	}
	if c.Organize.MaxCollisionAttempts < 1 {
		return errors.New("organize.max_collision_attempts must be positive")
	}
	for _, ext := range c.Organize.ImageExtensions {
		if strings.ContainsAny(ext, `/\.`) || strings.ContainsFunc(ext, isSpace) {
			return fmt.Errorf("organize.image_extensions: invalid extension %q", ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
