package workflow

import "github.com/contentforge/go-workflow/internal/runtimeconfig"

var (
	ErrRefreshDelayInvalid   = runtimeconfig.ErrRefreshDelayInvalid
	ErrFeedbackBoundsInvalid = runtimeconfig.ErrFeedbackBoundsInvalid
	ErrSummaryBoundsInvalid  = runtimeconfig.ErrSummaryBoundsInvalid
	ErrStorageDriverUnknown  = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired    = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingLevelInvalid   = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid  = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	WorkflowConfig = runtimeconfig.WorkflowConfig
	StorageConfig  = runtimeconfig.StorageConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the standard module configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
