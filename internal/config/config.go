// Package config provides configuration structures and loading for kobosync.
package config

// Config represents the complete application configuration.
type Config struct {
	Kobo     KoboConfig     `yaml:"kobo" mapstructure:"kobo"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Load     LoadConfig     `yaml:"load" mapstructure:"load"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// KoboConfig represents the remote KoboToolbox export endpoint.
type KoboConfig struct {
	URL            string `yaml:"url" mapstructure:"url"`
	Username       string `yaml:"username" mapstructure:"username"`
	Password       string `yaml:"password" mapstructure:"password"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// DatabaseConfig represents the destination PostgreSQL connection.
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"` // disable, require, verify-ca, verify-full
}

// LoadConfig represents bulk-insert and verification sampling settings.
type LoadConfig struct {
	BatchSize  int `yaml:"batch_size" mapstructure:"batch_size"`   // rows per multi-row INSERT statement
	SampleRows int `yaml:"sample_rows" mapstructure:"sample_rows"` // rows shown by post-load verification
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Kobo: KoboConfig{
			TimeoutSeconds: 30,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Load: LoadConfig{
			BatchSize:  500,
			SampleRows: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
