// Package config loads critpath's optional TOML configuration file.
//
// The file is looked up at the --config flag, then at
// $XDG_CONFIG_HOME/critpath/config.toml (~/.config/critpath/config.toml).
// A missing default file is not an error; every setting has a default and
// command-line flags override file values.
//
//	[analysis]
//	dangling = "reject"   # or "ignore"
//	window   = "latest"   # or "earliest"
//	max_horizon = 36500   # longest project accepted, in days
//
//	[render]
//	formats  = ["svg"]
//	detailed = false
//
//	[cache]
//	backend   = "file"    # "file", "redis" or "none"
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "168h"
//
//	[server]
//	addr            = ":8080"
//	request_timeout = "30s"
//
//	[log]
//	level = "info"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/critpath/pkg/cache"
	"github.com/matzehuels/critpath/pkg/cpm"
	errs "github.com/matzehuels/critpath/pkg/errors"
	"github.com/matzehuels/critpath/pkg/pipeline"
)

const appName = "critpath"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Render   RenderConfig   `toml:"render"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// AnalysisConfig holds defaults for the CPM computation.
type AnalysisConfig struct {
	Dangling   string `toml:"dangling"`
	Window     string `toml:"window"`
	MaxHorizon int    `toml:"max_horizon"`
}

// RenderConfig holds defaults for network diagrams.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"` // empty means the XDG cache dir
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig configures `critpath serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodyBytes   int64         `toml:"max_body_bytes"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Analysis: AnalysisConfig{
			Dangling:   string(pipeline.DefaultDangling),
			Window:     string(pipeline.DefaultWindow),
			MaxHorizon: cpm.DefaultMaxHorizon,
		},
		Render: RenderConfig{
			Formats: []string{pipeline.DefaultFormat},
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Prefix:  appName + ":",
			TTL:     cache.TTLArtifact,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   4 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/critpath/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default location if it exists.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Default(), nil
		}
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidOption, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown enum values and impossible limits.
func (c Config) Validate() error {
	if _, err := cpm.ParseDanglingPolicy(c.Analysis.Dangling); err != nil {
		return err
	}
	if _, err := cpm.ParseWindow(c.Analysis.Window); err != nil {
		return err
	}
	if _, err := cpm.ParseMaxHorizon(c.Analysis.MaxHorizon); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidOption, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errs.New(errs.ErrCodeInvalidOption, "cache backend redis needs redis_url")
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidOption, "cache ttl must not be negative")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ReadTimeout < 0 {
		return errs.New(errs.ErrCodeInvalidOption, "server timeouts must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errs.New(errs.ErrCodeInvalidOption, "server max_body_bytes must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidOption, err, "log level %q", c.Log.Level)
	}
	return nil
}

// LogLevel returns the configured level. Validate has already checked it.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// PipelineOptions returns pipeline options carrying the file's analysis
// and render defaults.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Dangling:   c.Analysis.Dangling,
		Window:     c.Analysis.Window,
		MaxHorizon: c.Analysis.MaxHorizon,
		Formats:    slices.Clone(c.Render.Formats),
		Detailed:   c.Render.Detailed,
	}
}
