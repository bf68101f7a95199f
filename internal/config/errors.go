package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	ErrInvalidEndpoint    = errors.New("invalid api endpoint: must be an absolute URL")
	ErrInvalidTimeout     = errors.New("invalid api timeout: must be non-negative")
	ErrInvalidRate        = errors.New("invalid requests_per_second: must be non-negative")
	ErrInvalidPanelWidth  = errors.New("invalid panel width: must be non-negative")
	ErrInvalidScaleBounds = errors.New("invalid scale bounds: floor must be positive and not above ceiling")
	ErrInvalidScaleRange  = errors.New("invalid scale range: need floor <= min_scale <= max_scale <= ceiling")
	ErrInvalidAddr        = errors.New("invalid server address: must not be empty")
	ErrInvalidSessionTTL  = errors.New("invalid session ttl: must be positive")
	ErrInvalidBoard       = errors.New("invalid board backend: must be memory or redis")
	ErrMissingRedisURL    = errors.New("redis board requires redis_url")
)

// ErrConfigNotFound is returned when an explicitly named file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")
