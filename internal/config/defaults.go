package config

const (
	defaultConfigPath     = "~/.config/mihonorg/config.toml"
	defaultProjectConfig  = "mihonorg.toml"
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
	defaultMaxCollisions  = 100000
	maxImagesPerChapter   = 1_000_000
	envLogLevel           = "MIHONORG_LOG_LEVEL"
	envLogFormat          = "MIHONORG_LOG_FORMAT"
	envImagesPerChapter   = "MIHONORG_IMAGES_PER_CHAPTER"
	envSourcePath         = "MIHONORG_SOURCE_PATH"
	envMaxCollisionTries  = "MIHONORG_MAX_COLLISION_ATTEMPTS"
	envReportPath         = "MIHONORG_REPORT"
	envMetricsPath        = "MIHONORG_METRICS_FILE"
	envLogFile            = "MIHONORG_LOG_FILE"
	envImageExtensionList = "MIHONORG_IMAGE_EXTENSIONS"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{
			MaxCollisionAttempts: defaultMaxCollisions,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
