package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

// DefaultFileName is looked up in the working directory.
const DefaultFileName = "wikicollage.toml"

// Environment overrides, applied after the file.
const (
	EnvAddr      = "WIKICOLLAGE_ADDR"
	EnvBoard     = "WIKICOLLAGE_BOARD"
	EnvRedisURL  = "WIKICOLLAGE_REDIS_URL"
	EnvUserAgent = "WIKICOLLAGE_USER_AGENT"
)

// UserPath returns the per-user config file location.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Find locates the config file. An explicit path must exist. Otherwise
// ./wikicollage.toml and then the XDG user config are tried, and an empty
// string means none was found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}
	for _, p := range []string{DefaultFileName, UserPath()} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load builds the effective configuration: defaults, then the file found by
// [Find], then .env and process environment overrides. The result is
// validated. It also returns the path of the file used, if any.
func Load(explicit string) (*Config, string, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, "", err
	}

	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg := NewConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, path, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("decode %s: unknown key %q", path, undec[0].String())
	}
	return nil
}

// LoadDotEnv reads the given .env files (default ./.env) into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays the WIKICOLLAGE_* variables reported by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvBoard); ok && v != "" {
		c.Server.Board = v
	}
	if v, ok := lookup(EnvRedisURL); ok && v != "" {
		c.Server.RedisURL = v
	}
	if v, ok := lookup(EnvUserAgent); ok && v != "" {
		c.API.UserAgent = v
	}
}
