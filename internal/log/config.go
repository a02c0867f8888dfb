package log

// Config controls the global logger.
type Config struct {
	Level  string     `mapstructure:"level"`  // trace|debug|info|warn|error
	Format string     `mapstructure:"format"` // text|json
	File   FileOutput `mapstructure:"file"`
}

// FileOutput enables rotated file logging in addition to stdout.
type FileOutput struct {
	Path       string `mapstructure:"path"` // Empty disables file output
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}
