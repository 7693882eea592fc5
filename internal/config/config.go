package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"webpify/internal/processor"
)

// EnvConfigPath names the variable consulted when no --config is given.
const EnvConfigPath = "WEBPIFY_CONFIG"

// Config is the optional YAML configuration. Pointer fields distinguish
// "unset" from a zero value so defaults survive partial files.
type Config struct {
	OutputDir       *string  `yaml:"output"`
	Quality         *int     `yaml:"quality"`
	WhiteBackground *bool    `yaml:"white_background"`
	Crop            *bool    `yaml:"crop"`
	Scale           *float64 `yaml:"scale"`
	AutoOrient      *bool    `yaml:"auto_orient"`

	MetricsFile string      `yaml:"metrics_file"`
	Trace       TraceConfig `yaml:"trace"`
}

type TraceConfig struct {
	Exporter     string `yaml:"exporter"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

// Load reads path (or $WEBPIFY_CONFIG when path is empty) and then applies
// WEBPIFY_* environment overrides. No file at all yields an empty Config.
func Load(path string) (*Config, error) {
	if path == "" {
		path = env(EnvConfigPath, "")
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the processor does not validate itself.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Trace.Exporter)) {
	case "", "none", "stdout":
	case "otlp":
		if strings.TrimSpace(c.Trace.OTLPEndpoint) == "" {
			return fmt.Errorf("trace.otlp_endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("trace.exporter must be one of none, stdout, otlp; got %q", c.Trace.Exporter)
	}
	return nil
}

// Apply overlays the configured values onto opts.
func (c *Config) Apply(opts processor.Options) processor.Options {
	if c.OutputDir != nil {
		opts.OutputDir = *c.OutputDir
	}
	if c.Quality != nil {
		opts.Quality = *c.Quality
	}
	if c.WhiteBackground != nil {
		opts.WhiteBackground = *c.WhiteBackground
	}
	if c.Crop != nil {
		opts.Crop = *c.Crop
	}
	if c.Scale != nil {
		opts.Scale = *c.Scale
	}
	if c.AutoOrient != nil {
		opts.AutoOrient = *c.AutoOrient
	}
	return opts
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("WEBPIFY_OUTPUT"); ok {
		c.OutputDir = &v
	}
	if _, ok := os.LookupEnv("WEBPIFY_QUALITY"); ok {
		q, err := envInt("WEBPIFY_QUALITY")
		if err != nil {
			return err
		}
		c.Quality = &q
	}
	if _, ok := os.LookupEnv("WEBPIFY_WHITE_BACKGROUND"); ok {
		b, err := envBool("WEBPIFY_WHITE_BACKGROUND")
		if err != nil {
			return err
		}
		c.WhiteBackground = &b
	}
	c.MetricsFile = env("WEBPIFY_METRICS_FILE", c.MetricsFile)
	c.Trace.Exporter = env("WEBPIFY_TRACE_EXPORTER", c.Trace.Exporter)
	c.Trace.OTLPEndpoint = env("WEBPIFY_OTLP_ENDPOINT", c.Trace.OTLPEndpoint)
	return nil
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envInt(key string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envBool(key string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
