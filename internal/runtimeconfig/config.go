package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrRemoteBaseURLRequired = errors.New("navsync config: remote base url is required")
var ErrRemoteBaseURLInvalid = errors.New("navsync config: remote base url must be an absolute http(s) url")
var ErrRemoteTimeoutInvalid = errors.New("navsync config: remote timeout must be zero or positive")
var ErrRemotePageSizeInvalid = errors.New("navsync config: remote page size must be between 1 and 100")
var ErrTraversalInvalid = errors.New("navsync config: navigation traversal is invalid")
var ErrStorageProviderUnknown = errors.New("navsync config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("navsync config: storage dsn is required for database providers")
var ErrCacheRequiresDatabase = errors.New("navsync config: mapping cache requires a database storage provider")
var ErrLoggingProviderRequired = errors.New("navsync config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("navsync config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("navsync config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("navsync config: logging format is invalid")

// Config aggregates the settings of a navsync module.
type Config struct {
	Remote     RemoteConfig
	Navigation NavigationConfig
	Notices    NoticesConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// RemoteConfig locates the WordPress site and its endpoints.
type RemoteConfig struct {
	BaseURL       string
	MenuItemsPath string
	SaveNoncePath string
	AdminAjaxPath string
	Timeout       time.Duration
	PageSize      int
	Username      string
	Password      string
	UserAgent     string
}

// NavigationConfig tunes reconciliation.
type NavigationConfig struct {
	// Traversal is "document" or "reverse-siblings".
	Traversal        string
	PlaceholderTitle string
	PlaceholderURL   string
}

// NoticesConfig selects the notice locale and an optional bundle file.
type NoticesConfig struct {
	Locale     string
	BundlePath string
}

// StorageConfig selects where mappings are persisted.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig controls the mapping read cache and menu item entity store.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	ItemTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Enabled   bool
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// MetricsConfig controls prometheus collectors.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

// DefaultConfig returns defaults for a local, memory backed run.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			MenuItemsPath: "/wp-json/__experimental/menu-items",
			SaveNoncePath: "/wp-json/__experimental/customizer-nonces/get-save-nonce",
			AdminAjaxPath: "/wp-admin/admin-ajax.php",
			Timeout:       30 * time.Second,
			PageSize:      100,
		},
		Navigation: NavigationConfig{
			Traversal:        "document",
			PlaceholderTitle: "Placeholder",
			PlaceholderURL:   "Placeholder",
		},
		Notices: NoticesConfig{
			Locale: "en",
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			TTL:     time.Minute,
			ItemTTL: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Metrics: MetricsConfig{
			Namespace: "navsync",
		},
	}
}

// Validate performs consistency checks and returns the first problem found.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Remote.BaseURL) == "" {
		return ErrRemoteBaseURLRequired
	}
	if err := validation.Validate(cfg.Remote.BaseURL, validation.By(absoluteHTTPURL)); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteBaseURLInvalid, err)
	}
	if cfg.Remote.Timeout < 0 {
		return ErrRemoteTimeoutInvalid
	}
	if err := validation.Validate(cfg.Remote.PageSize, validation.Min(1), validation.Max(100)); err != nil {
		return fmt.Errorf("%w: %d", ErrRemotePageSizeInvalid, cfg.Remote.PageSize)
	}

	if err := validation.Validate(normalize(cfg.Navigation.Traversal),
		validation.In("", "document", "reverse-siblings", "reverse", "stack"),
	); err != nil {
		return fmt.Errorf("%w: %s", ErrTraversalInvalid, cfg.Navigation.Traversal)
	}

	provider := normalize(cfg.Storage.Provider)
	switch provider {
	case "", "memory":
		if cfg.Cache.Enabled {
			return ErrCacheRequiresDatabase
		}
	case "sqlite", "sqlite3", "postgres", "postgresql", "pg":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Logging.Enabled {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func absoluteHTTPURL(value any) error {
	raw, _ := value.(string)
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
