package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/docclient/logger"
)

// Config is implemented by command configs that embed ServiceConfig.
type Config interface {
	GetServiceConfig() *ServiceConfig
	ApplyDefaults()
	Validate() error
}

// FileSystem is the file access the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFS struct{}

func (osFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv sets variables from path without overriding ones already set.
func (osFS) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig holds the loader's dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS file system, for tests.
func WithFileSystem(fsys FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fsys }
}

// WithConfigFile skips the search and reads path. A missing file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search and loads path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// configCandidates lists where a command's config.yml may live, in order.
func configCandidates(service string) []string {
	paths := []string{
		filepath.Join("cmd", service, "config.yml"),
		filepath.Join("config", service+".yml"),
		"config.yml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, service, "config.yml"))
	}
	return paths
}

func envCandidates(service string) []string {
	return []string{".env." + service, ".env"}
}

func firstExisting(fsys FileSystem, paths []string) string {
	for _, p := range paths {
		if fsys.Exists(p) {
			return p
		}
	}
	return ""
}

// LoadConfig unmarshals the configuration for service into cfg. Sources in
// increasing precedence: the YAML file, the .env file, the environment. An
// environment variable is the upper-cased key path with dots replaced by
// underscores, e.g. HTTP_RETRY_MAX_ATTEMPTS for http.retry.max_attempts.
func LoadConfig(service string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: osFS{}}
	for _, opt := range opts {
		opt(&lc)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	switch {
	case lc.ConfigFile != "":
		if !lc.FileSystem.Exists(lc.ConfigFile) {
			return fmt.Errorf("config file %s: %w", lc.ConfigFile, fs.ErrNotExist)
		}
		v.SetConfigFile(lc.ConfigFile)
	default:
		if found := firstExisting(lc.FileSystem, configCandidates(service)); found != "" {
			v.SetConfigFile(found)
		}
	}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	envFile := lc.EnvFile
	if envFile == "" {
		envFile = firstExisting(lc.FileSystem, envCandidates(service))
	}
	if envFile != "" {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			logger.Warn("env file not loaded", logger.Fields("file", envFile, logger.FieldError, err.Error()))
		}
	}

	for _, key := range keyPaths(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", service, err)
	}
	return nil
}

// Load reads the configuration for service into a new T, then applies
// defaults and validates it. The service name is used as the config name
// when the file does not set one.
func Load[T any, PT interface {
	*T
	Config
}](service string, opts ...LoaderOption) (*T, error) {
	cfg := new(T)
	if err := LoadConfig(service, cfg, opts...); err != nil {
		return nil, err
	}
	pc := PT(cfg)
	if sc := pc.GetServiceConfig(); sc.Name == "" {
		sc.Name = service
	}
	pc.ApplyDefaults()
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for %s: %w", service, err)
	}
	return cfg, nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// keyPaths returns the dotted mapstructure key of every leaf field reachable
// from t. Squashed embeds share their parent's prefix; untagged and "-"
// fields are skipped.
func keyPaths(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if opts == "squash" {
			keys = append(keys, keyPaths(f.Type, prefix)...)
			continue
		}
		if name == "" || name == "-" {
			continue
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch {
		case ft.Kind() == reflect.Func:
		case ft.Kind() == reflect.Struct && ft.PkgPath() != "time":
			keys = append(keys, keyPaths(ft, key)...)
		default:
			keys = append(keys, key)
		}
	}
	return keys
}
