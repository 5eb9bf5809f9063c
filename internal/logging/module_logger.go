package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-navsync/pkg/interfaces"
)

const (
	rootModule      = "navsync"
	reconcileModule = "navsync.reconcile"
	saveModule      = "navsync.save"
	remoteModule    = "navsync.remote"
	storageModule   = "navsync.storage"
)

const (
	fieldPostID = "post_id"
	fieldMenuID = "menu_id"
)

// ModuleLogger returns a logger scoped to module, falling back to NoOp when no
// provider is configured. The module name is attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ReconcileLogger returns the logger used by the menu item reconciler.
func ReconcileLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reconcileModule)
}

// SaveLogger returns the logger used by the changeset save orchestrator.
func SaveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, saveModule)
}

// RemoteLogger returns the logger used by the HTTP transport.
func RemoteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, remoteModule)
}

// StorageLogger returns the logger used by mapping stores.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithNavigationContext adds post and menu identifiers. Empty values are skipped.
func WithNavigationContext(logger interfaces.Logger, postID string, menuID int64) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(postID); trimmed != "" {
		fields[fieldPostID] = trimmed
	}
	if menuID > 0 {
		fields[fieldMenuID] = menuID
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
