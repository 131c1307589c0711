// Package config loads smilesdraw settings from a TOML file.
//
// The file is optional. [Load] starts from [Default] and overlays whatever
// the file sets, so a config only needs the keys it changes:
//
//	[layout]
//	bond_length = 40
//	overlap_resolution_iterations = 3
//
//	[render]
//	theme = "dark"
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "redis:6379"
//
//	[server]
//	addr = ":9000"
//	request_timeout = "15s"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/smilesdraw/pkg/cache"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/layout"
)

// AppName names the config and cache directories.
const AppName = "smilesdraw"

// Config is the complete configuration.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Render Render         `toml:"render"`
	Cache  cache.Config   `toml:"cache"`
	Server Server         `toml:"server"`
}

// Render holds output defaults.
type Render struct {
	Theme    string   `toml:"theme"`
	Formats  []string `toml:"formats"`
	Scale    float64  `toml:"scale"`
	Pseudo   bool     `toml:"pseudo_elements"`
	Graphviz bool     `toml:"graphviz"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MetricsEnabled  bool          `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	dir, err := CacheDir()
	if err != nil {
		dir = filepath.Join(os.TempDir(), AppName)
	}
	return Config{
		Layout: layout.DefaultOptions(),
		Render: Render{
			Theme:   "light",
			Formats: []string{"svg"},
			Scale:   2,
		},
		Cache: cache.Config{
			Backend: cache.BackendFile,
			Dir:     dir,
			Redis:   cache.RedisConfig{Addr: "localhost:6379", Prefix: cache.DefaultRedisPrefix},
			Mongo: cache.MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   cache.DefaultMongoDatabase,
				Collection: cache.DefaultMongoCollection,
			},
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MetricsEnabled:  true,
		},
	}
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultPath and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidOption, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidOption, err, "layout")
	}
	if err := apperrors.ValidateTheme(c.Render.Theme); err != nil {
		return err
	}
	if err := apperrors.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidOption, "render scale must be positive, got %g", c.Render.Scale)
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidOption, "unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/smilesdraw/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/smilesdraw/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
