// Package config loads, normalizes, and validates mihonorg configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// an optional TOML file, and honours MIHONORG_* environment overrides. No file
// is required: a missing config simply yields the defaults, and command-line
// flags are applied on top by the CLI.
package config
