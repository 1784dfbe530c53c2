package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "docfetch"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.ServiceName != "docfetch" {
			t.Errorf("expected logger service name 'docfetch', got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "docfetch", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", ServiceConfig{Name: "docfetch", Environment: "development"}, false, ""},
		{"valid staging", ServiceConfig{Name: "docfetch", Environment: "staging"}, false, ""},
		{"valid production", ServiceConfig{Name: "docfetch", Environment: "production"}, false, ""},
		{"missing name", ServiceConfig{Environment: "production"}, true, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "docfetch", Environment: "invalid"}, true, "environment: must be one of: development staging production"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestServiceConfigValidate_Logger(t *testing.T) {
	cfg := ServiceConfig{Name: "docfetch", Environment: "development"}
	cfg.ApplyDefaults()
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "logger.level") {
		t.Fatalf("expected logger.level error, got %v", err)
	}
}

type fetchConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Markup        struct {
		MaxAttempts int `mapstructure:"max_attempts"`
	} `mapstructure:"markup"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeConfig(t, `
name: docfetch
environment: staging
version: "1.0.0"
logger:
  level: debug
markup:
  max_attempts: 3
`)

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "docfetch" {
		t.Errorf("expected name 'docfetch', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logger level 'debug', got %q", cfg.Logging.Level)
	}
	if cfg.Markup.MaxAttempts != 3 {
		t.Errorf("expected markup.max_attempts 3, got %d", cfg.Markup.MaxAttempts)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "name: docfetch\nmarkup:\n  max_attempts: 3\n")
	t.Setenv("MARKUP_MAX_ATTEMPTS", "7")

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Markup.MaxAttempts != 7 {
		t.Errorf("expected env override 7, got %d", cfg.Markup.MaxAttempts)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg fetchConfig
	err := LoadConfig("docfetch", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeConfig(t, "markup: [unclosed\n")

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigEnvWithoutFile(t *testing.T) {
	t.Setenv("MARKUP_MAX_ATTEMPTS", "4")
	t.Setenv("LOGGER_LEVEL", "warn")

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg, WithFileSystem(&mockFS{})); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Markup.MaxAttempts != 4 || cfg.Logging.Level != "warn" {
		t.Errorf("env not applied: markup.max_attempts=%d logger.level=%q", cfg.Markup.MaxAttempts, cfg.Logging.Level)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "environment: production\n")

	cfg, err := Load[fetchConfig]("docfetch", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != "docfetch" {
		t.Errorf("expected service name fallback 'docfetch', got %q", cfg.Name)
	}
	if cfg.Logging.Level == "" {
		t.Error("expected logger defaults to be applied")
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "environment: moon\n")

	_, err := Load[fetchConfig]("docfetch", WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "invalid config for docfetch") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadConfigSearch(t *testing.T) {
	dir := t.TempDir()
	found := filepath.Join("cmd", "docfetch", "config.yml")
	if err := os.MkdirAll(filepath.Join(dir, "cmd", "docfetch"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, found), []byte("markup:\n  max_attempts: 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Markup.MaxAttempts != 9 {
		t.Errorf("expected config from %s, got max_attempts=%d", found, cfg.Markup.MaxAttempts)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	fsys := &mockFS{files: map[string]bool{".env.docfetch": true, ".env": true}}

	var cfg fetchConfig
	if err := LoadConfig("docfetch", &cfg, WithFileSystem(fsys)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(fsys.loaded) != 1 || fsys.loaded[0] != ".env.docfetch" {
		t.Errorf("expected only .env.docfetch loaded, got %v", fsys.loaded)
	}
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestKeyPaths(t *testing.T) {
	type retry struct {
		MaxAttempts int           `mapstructure:"max_attempts"`
		Backoff     time.Duration `mapstructure:"backoff"`
		RetryIf     func(error) bool
	}
	type sample struct {
		ServiceConfig `mapstructure:",squash"`
		Retry         *retry            `mapstructure:"retry"`
		Headers       map[string]string `mapstructure:"headers"`
		Started       time.Time         `mapstructure:"started"`
		Skipped       string            `mapstructure:"-"`
		internal      string
	}

	keys := keyPaths(reflect.TypeFor[*sample](), "")
	for _, want := range []string{"name", "logger.level", "retry.max_attempts", "retry.backoff", "headers", "started"} {
		if !slices.Contains(keys, want) {
			t.Errorf("expected key %q in %v", want, keys)
		}
	}
	for _, unwanted := range []string{"retry", "retry.retryif", "skipped", "internal", "logger"} {
		if slices.Contains(keys, unwanted) {
			t.Errorf("unexpected key %q in %v", unwanted, keys)
		}
	}
	if got := envName("http.retry.max_attempts"); got != "HTTP_RETRY_MAX_ATTEMPTS" {
		t.Errorf("envName = %q", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected paths: %+v", lc)
	}
}
