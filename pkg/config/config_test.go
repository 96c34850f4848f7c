package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Portal.URL != DefaultPortalURL {
		t.Errorf("Expected default URL to be %s, got %s", DefaultPortalURL, config.Portal.URL)
	}

	if config.Portal.Timeout != 900*time.Second {
		t.Errorf("Expected default timeout to be 900s, got %v", config.Portal.Timeout)
	}

	if config.Output.Directory != "./downloads" {
		t.Errorf("Expected default output directory to be ./downloads, got %s", config.Output.Directory)
	}

	assert.True(t, config.Portal.Headless)
	assert.Empty(t, config.Output.DownloadPattern)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SSPSCRAPER_URL", "http://localhost:8080/portal/")
	t.Setenv("SSPSCRAPER_TIMEOUT", "30")
	t.Setenv("SSPSCRAPER_HEADLESS", "false")
	t.Setenv("SSPSCRAPER_EXPORTS_PER_MINUTE", "12")
	t.Setenv("SSPSCRAPER_OUTPUT_DIR", "/tmp/ssp")
	t.Setenv("SSPSCRAPER_DOWNLOAD_PATTERN", "{category}*{year}*")
	t.Setenv("SSPSCRAPER_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "http://localhost:8080/portal/", config.Portal.URL)
	assert.Equal(t, 30*time.Second, config.Portal.Timeout)
	assert.False(t, config.Portal.Headless)
	assert.Equal(t, 12, config.Portal.ExportsPerMinute)
	assert.Equal(t, "/tmp/ssp", config.Output.Directory)
	assert.Equal(t, "{category}*{year}*", config.Output.DownloadPattern)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvDurationSyntax(t *testing.T) {
	t.Setenv("SSPSCRAPER_TIMEOUT", "2m")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())
	assert.Equal(t, 2*time.Minute, config.Portal.Timeout)
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("SSPSCRAPER_EXPORTS_PER_MINUTE", "many")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"missing url", func(c *Config) { c.Portal.URL = "" }, true},
		{"relative url", func(c *Config) { c.Portal.URL = "transparenciassp" }, true},
		{"zero timeout", func(c *Config) { c.Portal.Timeout = 0 }, true},
		{"negative pacing", func(c *Config) { c.Portal.ExportsPerMinute = -1 }, true},
		{"missing output", func(c *Config) { c.Output.Directory = "" }, true},
		{"bad pattern", func(c *Config) { c.Output.DownloadPattern = "[" }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"uppercase log level", func(c *Config) { c.Logging.Level = "DEBUG" }, false},
		{"warning log level", func(c *Config) { c.Logging.Level = "warning" }, false},
		{"disabled log level", func(c *Config) { c.Logging.Level = "disabled" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"output":             "/flag/output",
		"timeout":            60,
		"headless":           false,
		"exports-per-minute": 5,
		"download-pattern":   "{category}_{year}_{month2}.*",
		"log-level":          "error",
	}

	config.MergeCommandLineFlags(flags)

	assert.Equal(t, "/flag/output", config.Output.Directory)
	assert.Equal(t, 60*time.Second, config.Portal.Timeout)
	assert.False(t, config.Portal.Headless)
	assert.Equal(t, 5, config.Portal.ExportsPerMinute)
	assert.Equal(t, "{category}_{year}_{month2}.*", config.Output.DownloadPattern)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, DefaultPortalURL, config.Portal.URL)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.Portal.Timeout = 45 * time.Second
	config.Output.Directory = "/data/ssp"
	config.Logging.Level = "warn"

	require.NoError(t, config.Save(configPath))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, 45*time.Second, loaded.Portal.Timeout)
	assert.Equal(t, "/data/ssp", loaded.Output.Directory)
	assert.Equal(t, "warn", loaded.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	err := config.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := []byte("output:\n  directory: /from/file\nlogging:\n  level: warn\nportal:\n  timeout: 10s\n")
	require.NoError(t, os.WriteFile(configPath, content, 0644))

	t.Setenv("HOME", tmpDir)
	t.Setenv("SSPSCRAPER_LOG_LEVEL", "debug")

	cfg, err := Load(configPath, map[string]interface{}{"output": "/from/flag"})
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.Output.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 10*time.Second, cfg.Portal.Timeout)
}

func TestLoadValidationFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	assert.Error(t, err)

	cfg, err := Load("", map[string]interface{}{"log-level": "nope"})
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoadFromFileTimeout(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"plain seconds", "900", 900 * time.Second, false},
		{"duration string", "2m", 2 * time.Minute, false},
		{"quoted seconds", `"45"`, 45 * time.Second, false},
		{"garbage", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := "portal:\n  timeout: " + tt.value + "\n  headless: false\n  exports_per_minute: 4\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))

			config := DefaultConfig()
			err := config.LoadFromFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, config.Portal.Timeout)
			assert.False(t, config.Portal.Headless)
			assert.Equal(t, 4, config.Portal.ExportsPerMinute)
			assert.Equal(t, DefaultPortalURL, config.Portal.URL)
		})
	}
}

func TestQuietFromFlagsAndEnv(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.Logging.Quiet)

	t.Setenv("SSPSCRAPER_QUIET", "true")
	require.NoError(t, config.LoadFromEnv())
	assert.True(t, config.Logging.Quiet)

	config.MergeCommandLineFlags(map[string]interface{}{"quiet": false})
	assert.False(t, config.Logging.Quiet)
}
