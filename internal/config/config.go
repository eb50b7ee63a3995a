// Package config provides configuration loading and validation for the
// discovery API server. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the discovery API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Candidate record store
	DatabaseURL string `koanf:"database_url"`

	// History persistence. Empty means the in-process store, suitable for
	// development only.
	RedisAddr string `koanf:"redis_addr"`

	// Ranking
	CalibrationPath string `koanf:"calibration_path"`
	CandidateLimit  int    `koanf:"candidate_limit"`

	// Tracing
	TracingEnabled  bool    `koanf:"tracing_enabled"`
	TracingExporter string  `koanf:"tracing_exporter"`
	OTLPEndpoint    string  `koanf:"otlp_endpoint"`
	TraceSampleRate float64 `koanf:"trace_sample_rate"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL    = errors.New("DATABASE_URL is required")
	ErrInvalidPort           = errors.New("PORT must be a valid integer")
	ErrInvalidSampleRate     = errors.New("TRACE_SAMPLE_RATE must be between 0 and 1")
	ErrInvalidCandidateLimit = errors.New("CANDIDATE_LIMIT must be positive")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultCandidateLimit  = 100
	DefaultTraceSampleRate = 0.1
)

// Load reads configuration from environment variables and an optional YAML
// file. Environment variables take precedence over file values. Returns the
// loaded config and a slice of validation errors (empty if valid).
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, fmt.Errorf("%w: %v", ErrInvalidPort, err))
	}

	candidateLimit, err := getEnvIntOrDefault("CANDIDATE_LIMIT", k.Int("candidate_limit"), DefaultCandidateLimit)
	if err != nil {
		loadErrs = append(loadErrs, fmt.Errorf("%w: %v", ErrInvalidCandidateLimit, err))
	}

	sampleRate, err := getEnvFloatOrDefault("TRACE_SAMPLE_RATE", k.Float64("trace_sample_rate"), DefaultTraceSampleRate)
	if err != nil {
		loadErrs = append(loadErrs, fmt.Errorf("%w: %v", ErrInvalidSampleRate, err))
	}

	cfg := &Config{
		Port:            port,
		Env:             getEnvOrDefault("ENV", k.String("env"), DefaultEnv),
		DatabaseURL:     getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:       getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		CalibrationPath: getEnvOrKoanf("CALIBRATION_PATH", k, "calibration_path"),
		CandidateLimit:  candidateLimit,
		TracingEnabled:  getEnvBoolOrDefault("TRACING_ENABLED", k, "tracing_enabled"),
		TracingExporter: getEnvOrKoanf("TRACING_EXPORTER", k, "tracing_exporter"),
		OTLPEndpoint:    getEnvOrKoanf("OTLP_ENDPOINT", k, "otlp_endpoint"),
		TraceSampleRate: sampleRate,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks that all required configuration values are present and in
// range. Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.CandidateLimit <= 0 {
		errs = append(errs, ErrInvalidCandidateLimit)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		errs = append(errs, ErrInvalidSampleRate)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// Credentials are masked.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":              fmt.Sprintf("%d", c.Port),
		"env":               c.Env,
		"database_url":      maskDatabaseURL(c.DatabaseURL),
		"redis_addr":        valueOrNotSet(c.RedisAddr),
		"calibration_path":  valueOrNotSet(c.CalibrationPath),
		"candidate_limit":   fmt.Sprintf("%d", c.CandidateLimit),
		"tracing_enabled":   fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_exporter":  valueOrNotSet(c.TracingExporter),
		"otlp_endpoint":     valueOrNotSet(c.OTLPEndpoint),
		"trace_sample_rate": fmt.Sprintf("%g", c.TraceSampleRate),
	}
}

func valueOrNotSet(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set,
// otherwise the koanf value, or default. A zero in the YAML file falls back
// to the default.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer", envKey)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set,
// otherwise the koanf value, or default.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float", envKey)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault reads a boolean flag, env over file, defaulting false.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string) bool {
	enabled := false
	if k.Exists(koanfKey) {
		enabled = k.Bool(koanfKey)
	}
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			enabled = true
		case "false", "0", "no", "off":
			enabled = false
		}
	}
	return enabled
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return "****"
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
