package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mihonorg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose source path is a fresh temp directory.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourcePath = filepath.Join(base, "source")
	cfgVal.Logging.Level = "debug"
	if err := os.MkdirAll(cfgVal.Paths.SourcePath, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithImagesPerChapter sets the chapter size on the test config.
func WithImagesPerChapter(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.ImagesPerChapter = &n
	}
}

// WithInPlace switches the test config to in-place organization.
func WithInPlace() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.InPlace = true
	}
}

// WithDryRun enables preview mode on the test config.
func WithDryRun() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.DryRun = true
	}
}

// WithLogFile routes log output to a file under the config's base directory.
func WithLogFile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SourcePath)
}
