package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

const (
	testValue = "test_value"
)

// newTestLoader returns a loader over a private viper instance.
func newTestLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scanbridge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// TestNewLoader tests loader creation.
func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if loader.v != viper.GetViper() {
		t.Error("NewLoader should use the global viper instance")
	}
}

// TestLoadWithNoConfigFile tests loading with no config file present.
func TestLoadWithNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := newTestLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != infoLevel {
		t.Errorf("Expected default log level '%s', got %s", infoLevel, cfg.LogLevel)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
}

// TestLoadWithValidYAMLFile tests loading from a valid YAML file.
func TestLoadWithValidYAMLFile(t *testing.T) {
	configFile := writeConfig(t, `
log_level: debug
verbose: true
license_key: abc-123
server:
  host: 0.0.0.0
  port: 9000
  event_buffer: 32
  allowed_origins:
    - https://one.example
    - https://two.example
  rate_limit:
    enabled: true
    requests_per_minute: 30
engine:
  frames_dir: /var/frames
  frame_interval_ms: 50
  flash_available: true
global:
  threads_limit: 4
  multicode_caching_enabled: true
  multicode_caching_duration_ms: 500
document:
  path: /etc/scanbridge/config.json
  watch: true
`)

	cfg, err := newTestLoader().LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}

	if cfg.LogLevel != debugLevel || !cfg.Verbose || cfg.LicenseKey != "abc-123" {
		t.Errorf("Global settings not loaded: %+v", cfg)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 || cfg.Server.EventBuffer != 32 {
		t.Errorf("Server settings not loaded: %+v", cfg.Server)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://two.example" {
		t.Errorf("Allowed origins not loaded: %v", cfg.Server.AllowedOrigins)
	}
	if !cfg.Server.RateLimit.Enabled || cfg.Server.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Rate limit not loaded: %+v", cfg.Server.RateLimit)
	}
	// Unset keys keep their defaults.
	if cfg.Server.RateLimit.RequestsPerHour != DefaultConfig().Server.RateLimit.RequestsPerHour {
		t.Errorf("Expected default hourly limit, got %d", cfg.Server.RateLimit.RequestsPerHour)
	}
	if cfg.Engine.FramesDir != "/var/frames" || cfg.Engine.FrameIntervalMs != 50 || !cfg.Engine.FlashAvailable {
		t.Errorf("Engine settings not loaded: %+v", cfg.Engine)
	}
	if cfg.Global.ThreadsLimit != 4 || !cfg.Global.MulticodeCachingEnabled || cfg.Global.MulticodeCachingDurationMs != 500 {
		t.Errorf("Global settings not loaded: %+v", cfg.Global)
	}
	if cfg.Document.Path != "/etc/scanbridge/config.json" || !cfg.Document.Watch {
		t.Errorf("Document settings not loaded: %+v", cfg.Document)
	}
}

// TestLoadWithInvalidYAMLFile tests loading from an invalid YAML file.
func TestLoadWithInvalidYAMLFile(t *testing.T) {
	configFile := writeConfig(t, "server:\n  port: [unclosed\n")

	_, err := newTestLoader().LoadWithFile(configFile)
	if err == nil {
		t.Fatal("LoadWithFile() expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithNonExistentFile tests loading from a file that does not exist.
func TestLoadWithNonExistentFile(t *testing.T) {
	_, err := newTestLoader().LoadWithFile("/non/existent/scanbridge.yaml")
	if err == nil {
		t.Fatal("LoadWithFile() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithValidationFailure tests that invalid values are rejected.
func TestLoadWithValidationFailure(t *testing.T) {
	configFile := writeConfig(t, "global:\n  threads_limit: 99\n")

	_, err := newTestLoader().LoadWithFile(configFile)
	if err == nil {
		t.Fatal("LoadWithFile() expected validation error")
	}
	if !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadWithoutValidation tests that validation can be skipped.
func TestLoadWithoutValidation(t *testing.T) {
	configFile := writeConfig(t, "log_level: loud\n")

	cfg, err := newTestLoader().LoadWithFileWithoutValidation(configFile)
	if err != nil {
		t.Fatalf("LoadWithFileWithoutValidation() unexpected error: %v", err)
	}
	if cfg.LogLevel != "loud" {
		t.Errorf("Expected raw log level 'loud', got %s", cfg.LogLevel)
	}
}

// TestEnvironmentVariableOverride tests that environment variables win over files.
func TestEnvironmentVariableOverride(t *testing.T) {
	configFile := writeConfig(t, "log_level: warn\nserver:\n  port: 9000\n")
	t.Setenv("SCANBRIDGE_LOG_LEVEL", "error")
	t.Setenv("SCANBRIDGE_SERVER_PORT", "9100")
	t.Setenv("SCANBRIDGE_GLOBAL_THREADS_LIMIT", "3")

	cfg, err := newTestLoader().LoadWithFile(configFile)
	if err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Expected env log level 'error', got %s", cfg.LogLevel)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Expected env port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Global.ThreadsLimit != 3 {
		t.Errorf("Expected env threads limit 3, got %d", cfg.Global.ThreadsLimit)
	}
}

// TestEnvironmentVariableWithUnderscores tests nested keys containing underscores.
func TestEnvironmentVariableWithUnderscores(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCANBRIDGE_ENGINE_FRAME_INTERVAL_MS", "25")
	t.Setenv("SCANBRIDGE_SERVER_RATE_LIMIT_ENABLED", "true")

	cfg, err := newTestLoader().Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Engine.FrameIntervalMs != 25 {
		t.Errorf("Expected frame interval 25, got %d", cfg.Engine.FrameIntervalMs)
	}
	if !cfg.Server.RateLimit.Enabled {
		t.Error("Expected rate limit enabled from env")
	}
}

// TestGetSetConfigValues tests direct value access.
func TestGetSetConfigValues(t *testing.T) {
	loader := newTestLoader()
	loader.Set("test_key", testValue)

	if got := loader.Get("test_key"); got != testValue {
		t.Errorf("Expected %s, got %v", testValue, got)
	}
}

// TestGetConfigFileUsed tests reporting of the config file.
func TestGetConfigFileUsed(t *testing.T) {
	configFile := writeConfig(t, "verbose: true\n")
	loader := newTestLoader()

	if _, err := loader.LoadWithFile(configFile); err != nil {
		t.Fatalf("LoadWithFile() unexpected error: %v", err)
	}
	if got := loader.GetConfigFileUsed(); got != configFile {
		t.Errorf("Expected config file %s, got %s", configFile, got)
	}
}

// TestGetViper tests access to the underlying viper instance.
func TestGetViper(t *testing.T) {
	v := viper.New()
	if NewLoaderWithViper(v).GetViper() != v {
		t.Error("GetViper() returned a different instance")
	}
}

// TestGetResolvedConfig tests that defaults show up in the resolved settings.
func TestGetResolvedConfig(t *testing.T) {
	loader := newTestLoader()
	loader.setDefaults()

	settings := loader.GetResolvedConfig()
	for _, key := range []string{"log_level", "server", "engine", "global", "document"} {
		if _, ok := settings[key]; !ok {
			t.Errorf("Resolved config missing %q", key)
		}
	}
}

// TestGenerateDefaultConfigFile tests that the generated file loads cleanly.
func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")

	if err := GenerateDefaultConfigFile(path); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}

	cfg, err := newTestLoader().LoadWithFile(path)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Global.ThreadsLimit != DefaultConfig().Global.ThreadsLimit {
		t.Errorf("Generated config lost defaults: %+v", cfg)
	}
}

// TestGenerateDefaultConfigFileWithEmptyFilename tests the default file name.
func TestGenerateDefaultConfigFileWithEmptyFilename(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := GenerateDefaultConfigFile(""); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scanbridge.yaml")); err != nil {
		t.Errorf("Expected scanbridge.yaml to be created: %v", err)
	}
}

// TestGetConfigSearchPaths tests the search path list.
func TestGetConfigSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	paths := GetConfigSearchPaths()
	if paths[0] != "." {
		t.Errorf("Expected current directory first, got %s", paths[0])
	}
	if paths[len(paths)-1] != "/etc/scanbridge" {
		t.Errorf("Expected system path last, got %s", paths[len(paths)-1])
	}
	found := false
	for _, p := range paths {
		if p == filepath.Join("/xdg", "scanbridge") {
			found = true
		}
	}
	if !found {
		t.Errorf("XDG path missing from %v", paths)
	}
}

// TestLoadWithEmptyFilenameUsesDefaultLoad tests the empty path fallback.
func TestLoadWithEmptyFilenameUsesDefaultLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "scanbridge.yaml"), []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := newTestLoader().LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile(\"\") unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected config from working directory, got log level %s", cfg.LogLevel)
	}
}
