package edgelist

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages compiler configuration using Viper
type Config struct {
	v      *viper.Viper
	logger *zerolog.Logger
	out    io.Writer
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Input parameters
	v.SetDefault("input.symmetrize", false)
	v.SetDefault("input.comment_prefix", "#")

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.progress_interval_lines", 0)

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

func (c *Config) Symmetrize() bool      { return c.v.GetBool("input.symmetrize") }
func (c *Config) CommentPrefix() string { return c.v.GetString("input.comment_prefix") }

func (c *Config) LogLevel() string           { return c.v.GetString("logging.level") }
func (c *Config) ProgressIntervalLines() int { return c.v.GetInt("logging.progress_interval_lines") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Viper exposes the underlying store for flag and environment binding.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

// SetLogger overrides the logger returned by CreateLogger.
func (c *Config) SetLogger(logger zerolog.Logger) {
	c.logger = &logger
}

// SetLogOutput redirects loggers from CreateLogger, stderr by default.
func (c *Config) SetLogOutput(out io.Writer) {
	c.out = out
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	if c.logger != nil {
		return *c.logger
	}
	if c.out == nil {
		return c.newLogger(os.Stderr)
	}
	return c.newLogger(c.out)
}

func (c *Config) newLogger(out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "edgelist2csr").Logger()
}
