package logging

import (
	"context"

	"github.com/contentforge/go-workflow/pkg/interfaces"
)

const (
	rootModule      = "workflow"
	resolverModule  = "workflow.resolver"
	executorModule  = "workflow.executor"
	resourcesModule = "workflow.resources"
	commandsModule  = "workflow.commands"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so downstream entries filter predictably.
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

// ResolverLogger returns the logger namespace reserved for action resolution.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// ExecutorLogger returns the logger namespace reserved for transition
// execution.
func ExecutorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, executorModule)
}

// ResourcesLogger returns the logger namespace reserved for the resource
// store.
func ResourcesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resourcesModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// NoOp returns a logger that drops every entry. It satisfies the Logger
// contract so components operate safely when logging is disabled.
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
