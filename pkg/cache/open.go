package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend" json:"backend"`
	Dir     string      `toml:"dir" json:"dir"`
	Redis   RedisConfig `toml:"redis" json:"redis"`
	Mongo   MongoConfig `toml:"mongo" json:"mongo"`

	// Namespace prefixes every key, see NewScopedKeyer.
	Namespace string `toml:"namespace" json:"namespace,omitempty"`
}

// Keyer returns the key scheme for cfg.
func (cfg Config) Keyer() Keyer {
	if cfg.Namespace == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(NewDefaultKeyer(), cfg.Namespace)
}

// Open returns the backend named by cfg.Backend. An empty backend means
// "file".
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.Mongo)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
