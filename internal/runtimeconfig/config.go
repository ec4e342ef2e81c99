package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrRefreshDelayInvalid indicates a negative delayed-refresh interval.
	ErrRefreshDelayInvalid = errors.New("workflow config: refresh delay must be zero or positive")
	// ErrFeedbackBoundsInvalid indicates inverted or negative feedback length bounds.
	ErrFeedbackBoundsInvalid = errors.New("workflow config: feedback bounds are invalid")
	// ErrSummaryBoundsInvalid indicates inverted or negative change summary length bounds.
	ErrSummaryBoundsInvalid = errors.New("workflow config: change summary bounds are invalid")
	// ErrStorageDriverUnknown indicates an unsupported storage driver.
	ErrStorageDriverUnknown = errors.New("workflow config: storage driver is unknown")
	// ErrStorageDSNRequired indicates sqlite storage without a DSN.
	ErrStorageDSNRequired = errors.New("workflow config: storage dsn is required for sqlite")
	// ErrLoggingLevelInvalid indicates an unrecognised logging level.
	ErrLoggingLevelInvalid = errors.New("workflow config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates an unrecognised logging format.
	ErrLoggingFormatInvalid = errors.New("workflow config: logging format is invalid")
)

// Config aggregates the module's tunables. Fields use simple types so host
// applications can bind them from their own configuration sources.
type Config struct {
	Workflow WorkflowConfig
	Storage  StorageConfig
	Logging  LoggingConfig
}

// WorkflowConfig captures the behavioural knobs of the workflow core.
type WorkflowConfig struct {
	// RefreshDelay is the interval before the second post-transition
	// refresh, compensating for eventual consistency in the backing store.
	RefreshDelay time.Duration
	// ElevatedRoles bypass the restricted-action filter.
	ElevatedRoles []string
	// RestrictedActions is the uniform restricted set.
	RestrictedActions []string
	// RestrictedActionsPerType overrides the restricted set for a resource
	// type, keyed by type name.
	RestrictedActionsPerType map[string][]string

	FeedbackMinLength int
	FeedbackMaxLength int
	SummaryMinLength  int
	SummaryMaxLength  int
}

// StorageConfig selects the resource store backing.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string
	DSN    string
}

// LoggingConfig wires go-logger options through the module wrapper.
type LoggingConfig struct {
	Enabled   bool
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns the standard configuration: in-memory storage, the
// archive/unpublish restricted set, and the documented feedback bounds.
func DefaultConfig() Config {
	return Config{
		Workflow: WorkflowConfig{
			RefreshDelay:      2 * time.Second,
			ElevatedRoles:     []string{"admin", "superadmin"},
			RestrictedActions: []string{"archive", "unpublish"},
			FeedbackMinLength: 10,
			FeedbackMaxLength: 1000,
			SummaryMinLength:  10,
			SummaryMaxLength:  500,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
	}
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	if c.Workflow.RefreshDelay < 0 {
		return ErrRefreshDelayInvalid
	}
	if c.Workflow.FeedbackMinLength < 0 || c.Workflow.FeedbackMaxLength < c.Workflow.FeedbackMinLength {
		return ErrFeedbackBoundsInvalid
	}
	if c.Workflow.SummaryMinLength < 0 || c.Workflow.SummaryMaxLength < c.Workflow.SummaryMinLength {
		return ErrSummaryBoundsInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case "", "memory":
	case "sqlite":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return ErrStorageDriverUnknown
	}

	if c.Logging.Enabled {
		switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
		case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
		default:
			return ErrLoggingLevelInvalid
		}
		switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
		case "", "json", "console", "pretty":
		default:
			return ErrLoggingFormatInvalid
		}
	}

	return nil
}
