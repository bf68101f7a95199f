// Package config loads wikicollage settings from TOML, .env and the
// environment.
package config

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wikicollage/pkg/buildinfo"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/controls"
	"github.com/matzehuels/wikicollage/pkg/integrations/wikipedia"
)

// AppName names the XDG config directory.
const AppName = "wikicollage"

// Board backends.
const (
	BoardMemory = "memory"
	BoardRedis  = "redis"
)

// Server defaults.
const (
	DefaultAddr       = ":8080"
	DefaultSessionTTL = 30 * time.Minute
)

// Duration is a time.Duration that reads and writes TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Collage CollageConfig `toml:"collage"`
	Server  ServerConfig  `toml:"server"`
}

// APIConfig controls the upstream MediaWiki client.
type APIConfig struct {
	Endpoint  string `toml:"endpoint"`
	WikiBase  string `toml:"wiki_base"`
	UserAgent string `toml:"user_agent"`

	// Timeout bounds each upstream request; zero waits indefinitely.
	Timeout Duration `toml:"timeout"`

	// RequestsPerSecond paces upstream calls; zero disables pacing.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// CollageConfig controls layout and scale.
type CollageConfig struct {
	PanelWidth   float64 `toml:"panel_width"`
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	ScaleFloor   float64 `toml:"scale_floor"`
	ScaleCeiling float64 `toml:"scale_ceiling"`
}

// ServerConfig controls the HTTP adapter.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
	Board      string   `toml:"board"`
	RedisURL   string   `toml:"redis_url"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:  wikipedia.DefaultEndpoint,
			WikiBase:  wikipedia.DefaultWikiBase,
			UserAgent: buildinfo.UserAgent(),
		},
		Collage: CollageConfig{
			PanelWidth:   collage.DefaultPanelWidth,
			MinScale:     controls.DefaultMinScale,
			MaxScale:     controls.DefaultMaxScale,
			ScaleFloor:   controls.DefaultScaleFloor,
			ScaleCeiling: controls.DefaultScaleCeiling,
		},
		Server: ServerConfig{
			Addr:       DefaultAddr,
			SessionTTL: Duration{DefaultSessionTTL},
			Board:      BoardMemory,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.API.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if c.API.Timeout.Duration < 0 {
		return ErrInvalidTimeout
	}
	if c.API.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	if c.Collage.PanelWidth < 0 {
		return ErrInvalidPanelWidth
	}
	cc := c.Collage
	if cc.ScaleFloor <= 0 || cc.ScaleFloor > cc.ScaleCeiling {
		return ErrInvalidScaleBounds
	}
	if cc.MinScale > cc.MaxScale || cc.MinScale < cc.ScaleFloor || cc.MaxScale > cc.ScaleCeiling {
		return ErrInvalidScaleRange
	}
	if c.Server.Addr == "" {
		return ErrInvalidAddr
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return ErrInvalidSessionTTL
	}
	switch c.Server.Board {
	case BoardMemory:
	case BoardRedis:
		if c.Server.RedisURL == "" {
			return ErrMissingRedisURL
		}
	default:
		return ErrInvalidBoard
	}
	return nil
}

// Wikipedia returns the upstream client settings.
func (c *Config) Wikipedia() wikipedia.Config {
	return wikipedia.Config{
		Endpoint:          c.API.Endpoint,
		WikiBase:          c.API.WikiBase,
		UserAgent:         c.API.UserAgent,
		Timeout:           c.API.Timeout.Duration,
		RequestsPerSecond: c.API.RequestsPerSecond,
	}
}

// Session returns the options a new controls session starts from.
func (c *Config) Session() controls.Options {
	panel := c.Collage.PanelWidth
	return controls.Options{
		Scale:        collage.ScaleRange{Min: c.Collage.MinScale, Max: c.Collage.MaxScale},
		ScaleFloor:   c.Collage.ScaleFloor,
		ScaleCeiling: c.Collage.ScaleCeiling,
		PanelWidth:   &panel,
		WikiBase:     c.API.WikiBase,
	}
}

// WriteTOML encodes the configuration.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
