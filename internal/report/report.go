// Package report serializes organizer run reports to JSON, YAML or TOML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mihonorg/internal/failure"
	"mihonorg/internal/organizer"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", failure.Wrap(failure.ErrValidation, "report", "select format",
			fmt.Sprintf("unsupported report extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path)), nil)
	}
}

// Encode writes r to w in the given format.
func Encode(w io.Writer, format Format, r *organizer.Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Write stores r at path, replacing any previous report atomically.
func Write(path string, r *organizer.Report) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failure.Wrap(failure.ErrFilesystem, "report", "create directory", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return failure.Wrap(failure.ErrFilesystem, "report", "create temp file", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, format, r); err != nil {
		tmp.Close()
		return failure.Wrap(failure.ErrFilesystem, "report", "encode", path, err)
	}
	if err := tmp.Close(); err != nil {
		return failure.Wrap(failure.ErrFilesystem, "report", "close", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return failure.Wrap(failure.ErrFilesystem, "report", "rename", path, err)
	}
	return nil
}
