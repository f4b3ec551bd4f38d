// Public domain.

// Package config holds process settings read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/swiftarchive/obsselect/internal/resolve"
)

// Config holds settings not given per invocation on the command line.
type Config struct {
	LogLevel        string
	LogFormat       string
	Radius          float64 // default search radius, arcmin
	ResolverURL     string
	ResolverTimeout time.Duration
	ArchiveList     string // default archive address list path
}

// Environment variable names.
const (
	EnvLogLevel        = "OBSSELECT_LOG_LEVEL"
	EnvLogFormat       = "OBSSELECT_LOG_FORMAT"
	EnvRadius          = "OBSSELECT_RADIUS"
	EnvResolverURL     = "OBSSELECT_RESOLVER_URL"
	EnvResolverTimeout = "OBSSELECT_RESOLVER_TIMEOUT"
	EnvArchiveList     = "OBSSELECT_ARCHIVE_LIST"
)

// DefaultRadius is the search radius in arcmin when none is configured.
const DefaultRadius = 12

// Load reads configuration from the environment, applying defaults where
// unset.  Variables in the named .env files, or ./.env if none are named,
// are added to the environment first without overriding it.  Missing
// .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	radius, err := strconv.ParseFloat(envOrDefault(EnvRadius, strconv.Itoa(DefaultRadius)), 64)
	if err != nil || !(radius > 0) {
		return nil, fmt.Errorf("invalid %s: must be a positive number of arcmin", EnvRadius)
	}

	timeout, err := time.ParseDuration(envOrDefault(EnvResolverTimeout, "10s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid %s: must be a positive duration", EnvResolverTimeout)
	}

	cfg := &Config{
		LogLevel:        envOrDefault(EnvLogLevel, "info"),
		LogFormat:       envOrDefault(EnvLogFormat, "text"),
		Radius:          radius,
		ResolverURL:     envOrDefault(EnvResolverURL, resolve.DefaultURL),
		ResolverTimeout: timeout,
		ArchiveList:     envOrDefault(EnvArchiveList, "archive_addr_list.txt"),
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid %s: must be text or json", EnvLogFormat)
	}
	return cfg, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, fn := range files {
		err := godotenv.Load(fn)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", fn, err)
		}
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
