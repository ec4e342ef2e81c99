package runtimeconfig

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
	if cfg.Workflow.RefreshDelay != 2*time.Second {
		t.Fatalf("expected 2s refresh delay, got %v", cfg.Workflow.RefreshDelay)
	}
	if cfg.Storage.Driver != "memory" {
		t.Fatalf("expected memory driver, got %s", cfg.Storage.Driver)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "negative refresh delay",
			mutate:  func(c *Config) { c.Workflow.RefreshDelay = -time.Second },
			wantErr: ErrRefreshDelayInvalid,
		},
		{
			name:    "inverted feedback bounds",
			mutate:  func(c *Config) { c.Workflow.FeedbackMaxLength = 5 },
			wantErr: ErrFeedbackBoundsInvalid,
		},
		{
			name:    "inverted summary bounds",
			mutate:  func(c *Config) { c.Workflow.SummaryMaxLength = 5 },
			wantErr: ErrSummaryBoundsInvalid,
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *Config) { c.Storage.Driver = "postgres" },
			wantErr: ErrStorageDriverUnknown,
		},
		{
			name:    "sqlite without dsn",
			mutate:  func(c *Config) { c.Storage.Driver = "sqlite" },
			wantErr: ErrStorageDSNRequired,
		},
		{
			name:    "bad logging level",
			mutate:  func(c *Config) { c.Logging.Level = "chatty" },
			wantErr: ErrLoggingLevelInvalid,
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: ErrLoggingFormatInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDisabledLoggingSkipsLoggingChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Enabled = false
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("logging checks must be skipped when disabled, got %v", err)
	}
}
