package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Engine defaults
	if cfg.Engine.LookbackDays != 90 {
		t.Errorf("Engine.LookbackDays = %v, want 90", cfg.Engine.LookbackDays)
	}
	if cfg.Engine.MinDurationSeconds != 900 {
		t.Errorf("Engine.MinDurationSeconds = %v, want 900", cfg.Engine.MinDurationSeconds)
	}
	if cfg.Engine.MinSamples != 5 {
		t.Errorf("Engine.MinSamples = %v, want 5", cfg.Engine.MinSamples)
	}
	if cfg.Engine.OutlierTrimPct != 0.10 {
		t.Errorf("Engine.OutlierTrimPct = %v, want 0.10", cfg.Engine.OutlierTrimPct)
	}
	if cfg.Engine.NudgeStepSeconds != 5 {
		t.Errorf("Engine.NudgeStepSeconds = %v, want 5", cfg.Engine.NudgeStepSeconds)
	}
	if cfg.Engine.RecalcEveryRatings != 3 {
		t.Errorf("Engine.RecalcEveryRatings = %v, want 3", cfg.Engine.RecalcEveryRatings)
	}

	// Strava config should be empty by default
	if cfg.Strava.ClientID != "" {
		t.Errorf("Strava.ClientID should be empty, got %q", cfg.Strava.ClientID)
	}
	if cfg.Strava.ClientSecret != "" {
		t.Errorf("Strava.ClientSecret should be empty, got %q", cfg.Strava.ClientSecret)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		Engine: EngineConfig{
			MinDurationSeconds: 600, // looser than default, must survive
		},
	}
	cfg.applyDefaults()

	if cfg.Engine.MinDurationSeconds != 600 {
		t.Errorf("explicit MinDurationSeconds overwritten: got %v", cfg.Engine.MinDurationSeconds)
	}
	if cfg.Engine.MinSamples != 5 {
		t.Errorf("MinSamples not defaulted: got %v", cfg.Engine.MinSamples)
	}
	if cfg.Engine.RecalcEveryRatings != 3 {
		t.Errorf("RecalcEveryRatings not defaulted: got %v", cfg.Engine.RecalcEveryRatings)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Strava = StravaConfig{ClientID: "12345", ClientSecret: "abc123secret"}
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Strava.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Strava.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client secret",
			mutate:      func(c *Config) { c.Strava.ClientSecret = "YOUR_CLIENT_SECRET" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "implausible max HR",
			mutate:      func(c *Config) { c.Athlete.MaxHR = 300 },
			expectError: true,
			errContains: "max_hr",
		},
		{
			name:        "trim percentage too high",
			mutate:      func(c *Config) { c.Engine.OutlierTrimPct = 0.5 },
			expectError: true,
			errContains: "outlier_trim_pct",
		},
		{
			name:        "min samples too low",
			mutate:      func(c *Config) { c.Engine.MinSamples = 1 },
			expectError: true,
			errContains: "min_samples",
		},
		{
			name:        "negative nudge step",
			mutate:      func(c *Config) { c.Engine.NudgeStepSeconds = -5 },
			expectError: true,
			errContains: "nudge_step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}
