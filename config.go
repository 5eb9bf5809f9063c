package navsync

import "github.com/goliatone/go-navsync/internal/runtimeconfig"

var (
	ErrRemoteBaseURLRequired   = runtimeconfig.ErrRemoteBaseURLRequired
	ErrRemoteBaseURLInvalid    = runtimeconfig.ErrRemoteBaseURLInvalid
	ErrRemoteTimeoutInvalid    = runtimeconfig.ErrRemoteTimeoutInvalid
	ErrRemotePageSizeInvalid   = runtimeconfig.ErrRemotePageSizeInvalid
	ErrTraversalInvalid        = runtimeconfig.ErrTraversalInvalid
	ErrStorageProviderUnknown  = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrCacheRequiresDatabase   = runtimeconfig.ErrCacheRequiresDatabase
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	RemoteConfig     = runtimeconfig.RemoteConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	NoticesConfig    = runtimeconfig.NoticesConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	MetricsConfig    = runtimeconfig.MetricsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
