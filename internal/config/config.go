// Package config loads swarmcheck's TOML configuration file, decoded with
// github.com/BurntSushi/toml.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// appName names the application directory under XDG config/cache homes.
const appName = "swarmcheck"

// Config is the decoded shape of ~/.config/swarmcheck/config.toml.
type Config struct {
	// Granularity is the default over-approximation strategy for
	// "swarmcheck infer" when --granularity is not passed.
	Granularity swarm.Granularity `toml:"granularity"`
	// Minimize is the default for --minimize on projection commands.
	Minimize bool `toml:"minimize"`
	// Cache selects the cache backend: "file", "redis", or "none".
	Cache CacheConfig `toml:"cache"`
	// HTTP configures internal/httpapi's listener.
	HTTP HTTPConfig `toml:"http"`
	// Mongo configures pkg/store's run-history persistence. A blank URI
	// disables persistence.
	Mongo MongoConfig `toml:"mongo"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"` // "file" (default), "redis", "none"
	Dir     string `toml:"dir"`     // file backend only
	Addr    string `toml:"addr"`    // redis backend only
}

// HTTPConfig configures the REST transport.
type HTTPConfig struct {
	Addr string `toml:"addr"`
}

// MongoConfig configures run-history persistence.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in defaults applied before a config file is
// merged in.
func Default() Config {
	return Config{
		Granularity: swarm.TwoStep,
		Minimize:    true,
		Cache:       CacheConfig{Backend: "file"},
		HTTP:        HTTPConfig{Addr: ":8080"},
		Mongo:       MongoConfig{Database: appName, Collection: "runs"},
	}
}

// DefaultPath returns ~/.config/swarmcheck/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads and decodes the TOML file at path into [Default]'s baseline,
// so a config file only needs to set the fields it wants to override. A
// missing file is not an error: Load returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
