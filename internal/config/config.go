// Package config loads crumbtrail settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/crumbtrail/config.toml, falling
// back to ~/.config/crumbtrail/config.toml. A missing file at the default
// location is not an error; every field has a default. Command-line flags
// override file values.
//
//	url_prefix = "https://example.com/"
//	connector = ">"
//	template = "breadcrumb.html.tmpl"
//	templates_dir = "./templates"
//
//	[source]
//	kind = "sqlite"
//	path = "site.db"
//	table = "nodes"
//
//	[cache]
//	backend = "redis"
//	ttl = "12h"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/matzehuels/crumbtrail/pkg/cache"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/pipeline"
	"github.com/matzehuels/crumbtrail/pkg/source/mongo"
)

const appName = "crumbtrail"

// Source kinds.
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
	SourceMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultServerAddr is the listen address of `crumbtrail serve`.
const DefaultServerAddr = ":8080"

// Config is the full configuration file.
type Config struct {
	URLPrefix    string `toml:"url_prefix"`
	Connector    string `toml:"connector"`
	Template     string `toml:"template"`
	TemplatesDir string `toml:"templates_dir"`

	Source SourceConfig      `toml:"source"`
	Cache  CacheConfig       `toml:"cache"`
	Redis  cache.RedisConfig `toml:"redis"`
	Mongo  mongo.Config      `toml:"mongo"`
	Server ServerConfig      `toml:"server"`
}

// SourceConfig selects where nodes are loaded from.
type SourceConfig struct {
	Kind  string `toml:"kind"`  // file, sqlite or mongo
	Path  string `toml:"path"`  // node file or SQLite database
	Table string `toml:"table"` // SQLite table
}

// CacheConfig selects the content cache.
type CacheConfig struct {
	Backend string        `toml:"backend"` // file, redis or none
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills empty fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Connector == "" {
		c.Connector = pipeline.DefaultConnector
	}
	if c.Template == "" {
		c.Template = pipeline.DefaultTemplate
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceFile
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = cache.TTLContent
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = mongo.DefaultCollection
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if err := errors.ValidateURLPrefix(c.URLPrefix); err != nil {
		return err
	}
	if err := errors.ValidateTemplateName(c.Template); err != nil {
		return err
	}

	switch c.Source.Kind {
	case SourceFile:
	case SourceSQLite:
		if c.Source.Table != "" {
			if err := errors.ValidateTableName(c.Source.Table); err != nil {
				return err
			}
		}
	case SourceMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo source needs [mongo] uri and database")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q (want file, sqlite or mongo)", c.Source.Kind)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	return nil
}

// DefaultPath returns the default configuration file location. The XDG
// environment is re-read on every call.
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads the configuration at path. An empty path means DefaultPath,
// and a missing file there yields the defaults. An explicit path must exist.
// Relative paths inside the file are resolved against its directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	c.resolvePaths(filepath.Dir(path))
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{&c.TemplatesDir, &c.Source.Path, &c.Cache.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
