package docfill

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the docfill engine
type Config struct {
	// CacheMaxSize is the maximum number of normalized templates to cache. 0 disables caching.
	CacheMaxSize int `yaml:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `yaml:"log_level"`
	// StrictMode makes a placeholder without a resolved value a render error
	StrictMode bool `yaml:"strict_mode"`
	// AllowUnterminated merges an unclosed placeholder to the end of its part
	// instead of failing
	AllowUnterminated bool `yaml:"allow_unterminated"`
	// OutputDir is the base directory for saved reports
	OutputDir string `yaml:"output_dir"`
	// FilenameLabel is the middle part of saved report names: <type>_<label>_<n>.<ext>
	FilenameLabel string `yaml:"filename_label"`
	// PDFEngine selects the PDF renderer: auto, chrome or canvas
	PDFEngine string `yaml:"pdf_engine"`
	// ChromePath overrides the browser executable used by the chrome engine
	ChromePath string `yaml:"chrome_path"`
	// Workers bounds concurrent report generation in GenerateAll
	Workers int `yaml:"workers"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:      32,
		CacheTTL:          0,
		LogLevel:          "info",
		StrictMode:        false,
		AllowUnterminated: false,
		OutputDir:         "generated",
		FilenameLabel:     "Lease",
		PDFEngine:         "auto",
		ChromePath:        "",
		Workers:           4,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	applyEnvironment(config)
	return config
}

// LoadConfigFile reads a YAML configuration file on top of the defaults.
// Environment variables still take precedence over the file.
func LoadConfigFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	applyEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

func applyEnvironment(config *Config) {
	// DOCFILL_CACHE_MAX_SIZE
	if val := os.Getenv("DOCFILL_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// DOCFILL_CACHE_TTL
	if val := os.Getenv("DOCFILL_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	if val := os.Getenv("DOCFILL_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}
	if val := os.Getenv("DOCFILL_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}
	if val := os.Getenv("DOCFILL_ALLOW_UNTERMINATED"); val != "" {
		config.AllowUnterminated = parseBool(val)
	}
	if val := os.Getenv("DOCFILL_OUTPUT_DIR"); val != "" {
		config.OutputDir = val
	}
	if val := os.Getenv("DOCFILL_FILENAME_LABEL"); val != "" {
		config.FilenameLabel = val
	}
	if val := os.Getenv("DOCFILL_PDF_ENGINE"); val != "" {
		config.PDFEngine = strings.ToLower(val)
	}
	if val := os.Getenv("DOCFILL_CHROME_PATH"); val != "" {
		config.ChromePath = val
	}

	// DOCFILL_WORKERS
	if val := os.Getenv("DOCFILL_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.Workers = n
		}
	}
}

// Validate checks if the configuration is valid. Every problem is reported,
// collected in a MultiError when there is more than one.
func (c *Config) Validate() error {
	errs := NewMultiError()

	if c.CacheMaxSize < 0 {
		errs.Add(errors.New("cache max size cannot be negative"))
	}

	if c.CacheTTL < 0 {
		errs.Add(errors.New("cache TTL cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		errs.Add(errors.New("invalid log level: " + c.LogLevel))
	}

	switch c.PDFEngine {
	case "auto", "chrome", "canvas":
	default:
		errs.Add(errors.New("invalid pdf engine: " + c.PDFEngine))
	}

	if c.FilenameLabel == "" {
		errs.Add(errors.New("filename label cannot be empty"))
	}

	if c.Workers <= 0 {
		errs.Add(errors.New("workers must be positive"))
	}

	return errs.Err()
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger based on new config (outside the lock to avoid deadlock)
	UpdateLoggerFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
