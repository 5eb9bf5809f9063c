package commands

import (
	"strings"

	"github.com/goliatone/go-navsync/internal/logging"
	"github.com/goliatone/go-navsync/pkg/interfaces"
)

const commandModuleRoot = "navsync.commands"

// CommandLogger returns a logger for the handlers of module, tagged with the
// command component fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
