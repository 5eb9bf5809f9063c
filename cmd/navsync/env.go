package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	navsync "github.com/goliatone/go-navsync"
)

// Environment variables read by the CLI. Process variables win over the env file.
const (
	envBaseURL    = "NAVSYNC_BASE_URL"
	envUsername   = "NAVSYNC_USERNAME"
	envPassword   = "NAVSYNC_PASSWORD"
	envUserAgent  = "NAVSYNC_USER_AGENT"
	envTimeout    = "NAVSYNC_TIMEOUT"
	envPageSize   = "NAVSYNC_PAGE_SIZE"
	envTraversal  = "NAVSYNC_TRAVERSAL"
	envLocale     = "NAVSYNC_LOCALE"
	envBundle     = "NAVSYNC_NOTICES_BUNDLE"
	envStorage    = "NAVSYNC_STORAGE"
	envDSN        = "NAVSYNC_DSN"
	envCache      = "NAVSYNC_CACHE"
	envLogLevel   = "NAVSYNC_LOG_LEVEL"
	envLogFormat  = "NAVSYNC_LOG_FORMAT"
	envMetrics    = "NAVSYNC_METRICS"
	defaultDotEnv = ".env"
)

var envKeys = []string{
	envBaseURL, envUsername, envPassword, envUserAgent, envTimeout, envPageSize,
	envTraversal, envLocale, envBundle, envStorage, envDSN, envCache,
	envLogLevel, envLogFormat, envMetrics,
}

// loadEnv merges the env file at path with the process environment. A missing
// default file is ignored; a missing explicit file is an error.
func loadEnv(path string, lookup func(string) (string, bool)) (map[string]string, error) {
	values := map[string]string{}

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultDotEnv
	}
	fileValues, err := godotenv.Read(path)
	switch {
	case err == nil:
		for key, value := range fileValues {
			values[key] = value
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range envKeys {
		if value, ok := lookup(key); ok {
			values[key] = value
		}
	}
	return values, nil
}

// applyEnv overlays env values on cfg.
func applyEnv(cfg *navsync.Config, values map[string]string) error {
	setString := func(key string, target *string) {
		if value, ok := values[key]; ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}

	setString(envBaseURL, &cfg.Remote.BaseURL)
	setString(envUsername, &cfg.Remote.Username)
	setString(envUserAgent, &cfg.Remote.UserAgent)
	setString(envTraversal, &cfg.Navigation.Traversal)
	setString(envLocale, &cfg.Notices.Locale)
	setString(envBundle, &cfg.Notices.BundlePath)
	setString(envStorage, &cfg.Storage.Provider)
	setString(envDSN, &cfg.Storage.DSN)
	setString(envLogFormat, &cfg.Logging.Format)
	if password, ok := values[envPassword]; ok {
		cfg.Remote.Password = password
	}

	if raw := strings.TrimSpace(values[envTimeout]); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return envError(envTimeout, err)
		}
		cfg.Remote.Timeout = timeout
	}
	if raw := strings.TrimSpace(values[envPageSize]); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return envError(envPageSize, err)
		}
		cfg.Remote.PageSize = size
	}
	if raw := strings.TrimSpace(values[envCache]); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return envError(envCache, err)
		}
		cfg.Cache.Enabled = enabled
	}
	if raw := strings.TrimSpace(values[envMetrics]); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return envError(envMetrics, err)
		}
		cfg.Metrics.Enabled = enabled
	}
	if raw := strings.TrimSpace(values[envLogLevel]); raw != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = raw
	}
	return nil
}

type envVarError struct {
	key string
	err error
}

func (e *envVarError) Error() string {
	return "navsync: " + e.key + ": " + e.err.Error()
}

func (e *envVarError) Unwrap() error {
	return e.err
}

func envError(key string, err error) error {
	return &envVarError{key: key, err: err}
}
