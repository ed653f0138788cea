// Package config defines the immutable configuration value shared by one
// engine instance, plus construction from dynamic key/value maps.
package config

import (
	"fmt"
	"maps"
	"time"

	"github.com/c360/flowproc/errors"
)

// Config describes retry bounds, the per-attempt timeout, the cache toggle,
// and free-form metadata echoed into every result. It is immutable once
// constructed; all operations of one engine share the same value.
type Config struct {
	// MaxRetries is the number of attempts in the retry loop. Zero means a
	// single attempt with no retry.
	MaxRetries int

	// Timeout bounds the duration of a single execution attempt, not the
	// whole retry sequence. An attempt exceeding it counts as a failure.
	Timeout time.Duration

	// CacheEnabled toggles result caching keyed by record identity.
	CacheEnabled bool

	// Metadata is passed through verbatim to every ResultRecord.
	Metadata map[string]any
}

// Default returns the standard configuration: three retries, a 30 second
// per-attempt timeout, caching on.
func Default() Config {
	return Config{
		MaxRetries:   3,
		Timeout:      30 * time.Second,
		CacheEnabled: true,
		Metadata:     map[string]any{},
	}
}

// Recognized keys for FromMap construction.
const (
	keyMaxRetries     = "max_retries"
	keyTimeout        = "timeout"
	keyTimeoutSeconds = "timeout_seconds"
	keyCacheEnabled   = "cache_enabled"
	keyMetadata       = "metadata"
)

// FromMap builds a Config from a dynamic map, starting from Default().
// Unknown keys are rejected rather than ignored so misspelled configuration
// fails at construction instead of silently using defaults.
func FromMap(raw map[string]any) (Config, error) {
	cfg := Default()
	if raw == nil {
		return cfg, nil
	}

	for key := range raw {
		switch key {
		case keyMaxRetries, keyTimeout, keyTimeoutSeconds, keyCacheEnabled, keyMetadata:
		default:
			return Config{}, errors.WrapInvalid(
				fmt.Errorf("%w: %q", errors.ErrUnknownConfigKey, key),
				"Config", "FromMap", "parse configuration map")
		}
	}

	cfg.MaxRetries = GetInt(raw, keyMaxRetries, cfg.MaxRetries)
	cfg.CacheEnabled = GetBool(raw, keyCacheEnabled, cfg.CacheEnabled)

	// Copy the metadata so the Config never aliases the caller's map;
	// mutating raw after construction must not change later results.
	cfg.Metadata = GetMap(raw, keyMetadata, cfg.Metadata)
	cfg.Metadata = cfg.MetadataCopy()

	// timeout takes a duration; timeout_seconds takes a bare number.
	cfg.Timeout = GetDuration(raw, keyTimeout, cfg.Timeout)
	if secs := GetFloat64(raw, keyTimeoutSeconds, 0); secs != 0 {
		cfg.Timeout = time.Duration(secs * float64(time.Second))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for construction-time errors.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: max_retries must be >= 0, got %d", errors.ErrInvalidConfig, c.MaxRetries),
			"Config", "Validate", "check retry bound")
	}
	if c.Timeout <= 0 {
		return errors.WrapInvalid(
			fmt.Errorf("%w: timeout must be > 0, got %s", errors.ErrInvalidConfig, c.Timeout),
			"Config", "Validate", "check attempt timeout")
	}
	return nil
}

// MetadataCopy returns a shallow copy of the metadata map so result records
// cannot alias the engine's configuration.
func (c Config) MetadataCopy() map[string]any {
	if c.Metadata == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(c.Metadata))
	maps.Copy(out, c.Metadata)
	return out
}
