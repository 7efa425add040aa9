package pipeline

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gilchrisn/brain-connectivity-service/pkg/metrics"
)

// Config wraps viper so analysis settings come from one place with sane
// defaults, overridable from a file or with Set in tests.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a config populated with defaults.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	// Analysis parameters
	v.SetDefault("analysis.metric", metrics.MetricStrength)
	v.SetDefault("analysis.threshold_proportion", 0.2)
	v.SetDefault("analysis.parallel", false)
	v.SetDefault("analysis.num_workers", 4)

	// Algorithm parameters
	v.SetDefault("algorithm.max_iterations", 100)
	v.SetDefault("algorithm.tolerance", 1e-6)
	v.SetDefault("algorithm.max_levels", 10)
	v.SetDefault("algorithm.random_seed", 42)

	// Output parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("output.indent", true)
}

// LoadFromFile reads settings from a config file, keeping defaults for any
// key the file does not mention.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Set overrides a single key.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

func (c *Config) GetString(key string) string   { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int         { return c.v.GetInt(key) }
func (c *Config) GetInt64(key string) int64     { return c.v.GetInt64(key) }
func (c *Config) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }
func (c *Config) GetBool(key string) bool       { return c.v.GetBool(key) }

// MetricOptions collects the algorithm keys into engine options.
func (c *Config) MetricOptions() metrics.Options {
	return metrics.Options{
		MaxIterations: c.GetInt("algorithm.max_iterations"),
		Tolerance:     c.GetFloat64("algorithm.tolerance"),
		MaxLevels:     c.GetInt("algorithm.max_levels"),
		RandomSeed:    c.GetInt64("algorithm.random_seed"),
	}
}

// CreateLogger builds the service logger at the configured level.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.GetString("logging.level"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "brain-connectivity").Logger()
}
