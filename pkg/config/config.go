package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPortalURL is the transparency portal of the São Paulo public security office
const DefaultPortalURL = "http://www.ssp.sp.gov.br/transparenciassp/"

// Config holds all configuration options for the portal scraper
type Config struct {
	// Portal and browser settings
	Portal PortalConfig `yaml:"portal" json:"portal"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PortalConfig holds browser session configuration
type PortalConfig struct {
	URL              string        `yaml:"url" json:"url"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	Headless         bool          `yaml:"headless" json:"headless"`
	UserAgent        string        `yaml:"user_agent" json:"user_agent"`
	ExportsPerMinute int           `yaml:"exports_per_minute" json:"exports_per_minute"`
}

// OutputConfig holds download directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	// DownloadPattern is a glob relative to Directory used to detect periods
	// already on disk. Empty disables the check.
	DownloadPattern string `yaml:"download_pattern" json:"download_pattern"`
}

// UnmarshalYAML accepts the timeout either as a plain number of seconds or
// as a Go duration string
func (p *PortalConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if key.Value != "timeout" || val.Kind != yaml.ScalarNode {
				continue
			}
			d, err := parseSeconds(val.Value)
			if err != nil {
				return fmt.Errorf("line %d: invalid timeout %q: %w", val.Line, val.Value, err)
			}
			val.Tag = "!!str"
			val.Value = d.String()
		}
	}

	type plain PortalConfig
	return value.Decode((*plain)(p))
}

// LogLevels lists the accepted logging levels
var LogLevels = []string{"debug", "info", "warn", "warning", "error", "disabled"}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// Quiet keeps console output to errors only; the file still receives
	// every entry at Level
	Quiet bool `yaml:"quiet" json:"quiet"`
}

// ValidLogLevel reports whether level is one of LogLevels
func ValidLogLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range LogLevels {
		if l == level {
			return true
		}
	}
	return false
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Portal: PortalConfig{
			URL:              DefaultPortalURL,
			Timeout:          900 * time.Second,
			Headless:         true,
			ExportsPerMinute: 0, // 0 means no pacing
		},
		Output: OutputConfig{
			Directory: "./downloads",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if u := os.Getenv("SSPSCRAPER_URL"); u != "" {
		c.Portal.URL = u
	}
	if timeout := os.Getenv("SSPSCRAPER_TIMEOUT"); timeout != "" {
		d, err := parseSeconds(timeout)
		if err != nil {
			return fmt.Errorf("SSPSCRAPER_TIMEOUT: %w", err)
		}
		c.Portal.Timeout = d
	}
	if headless := os.Getenv("SSPSCRAPER_HEADLESS"); headless != "" {
		c.Portal.Headless = strings.ToLower(headless) == "true"
	}
	if ua := os.Getenv("SSPSCRAPER_USER_AGENT"); ua != "" {
		c.Portal.UserAgent = ua
	}
	if epm := os.Getenv("SSPSCRAPER_EXPORTS_PER_MINUTE"); epm != "" {
		val, err := strconv.Atoi(epm)
		if err != nil {
			return fmt.Errorf("SSPSCRAPER_EXPORTS_PER_MINUTE: %w", err)
		}
		c.Portal.ExportsPerMinute = val
	}

	if outputDir := os.Getenv("SSPSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if pattern := os.Getenv("SSPSCRAPER_DOWNLOAD_PATTERN"); pattern != "" {
		c.Output.DownloadPattern = pattern
	}

	if logLevel := os.Getenv("SSPSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("SSPSCRAPER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	if quiet := os.Getenv("SSPSCRAPER_QUIET"); quiet != "" {
		c.Logging.Quiet = strings.ToLower(quiet) == "true"
	}

	return nil
}

// parseSeconds accepts either a plain number of seconds or a Go duration
func parseSeconds(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".sspscraper.yaml",
		".sspscraper.yml",
		filepath.Join(home, ".config", "sspscraper", "config.yaml"),
		filepath.Join(home, ".config", "sspscraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Portal.URL == "" {
		errs = append(errs, errors.New("portal URL is required"))
	} else if u, err := url.Parse(c.Portal.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid portal URL %q", c.Portal.URL))
	}
	if c.Portal.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.Portal.ExportsPerMinute < 0 {
		errs = append(errs, errors.New("exports per minute cannot be negative"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.DownloadPattern != "" {
		if _, err := filepath.Match(c.Output.DownloadPattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid download pattern: %w", err))
		}
	}

	if !ValidLogLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid log level %q, expected one of %s",
			c.Logging.Level, strings.Join(LogLevels, ", ")))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if u, ok := flags["url"].(string); ok && u != "" {
		c.Portal.URL = u
	}
	if timeout, ok := flags["timeout"].(int); ok && timeout > 0 {
		c.Portal.Timeout = time.Duration(timeout) * time.Second
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Portal.Headless = headless
	}
	if epm, ok := flags["exports-per-minute"].(int); ok {
		c.Portal.ExportsPerMinute = epm
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if pattern, ok := flags["download-pattern"].(string); ok {
		c.Output.DownloadPattern = pattern
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.Logging.Quiet = quiet
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".sspscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
