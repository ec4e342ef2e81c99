package commands

import (
	"strings"

	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

const commandModuleRoot = "workflow.commands"

// CommandLogger returns a module-scoped logger for command handlers,
// enriched with consistent structured fields.
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
