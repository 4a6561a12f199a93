package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Strava  StravaConfig  `json:"strava"`
	Athlete AthleteConfig `json:"athlete"`
	Engine  EngineConfig  `json:"engine"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds athlete-specific settings
type AthleteConfig struct {
	// MaxHR is the athlete's known maximum heart rate. Optional; when set it
	// is used to reject implausible heart-rate samples before detection.
	MaxHR float64 `json:"max_hr"`
}

// EngineConfig holds the threshold-estimation tunables. The right values for
// these changed between iterations of the estimator, so they are config
// fields rather than hidden literals.
type EngineConfig struct {
	LookbackDays       int     `json:"lookback_days"`
	MinDurationSeconds int     `json:"min_duration_seconds"`
	MinSamples         int     `json:"min_samples"`
	OutlierTrimPct     float64 `json:"outlier_trim_pct"`
	SufferScoreCeiling float64 `json:"suffer_score_ceiling"`
	NudgeStepSeconds   float64 `json:"nudge_step_seconds"`
	RecalcEveryRatings int     `json:"recalc_every_ratings"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			LookbackDays:       90,
			MinDurationSeconds: 900,
			MinSamples:         5,
			OutlierTrimPct:     0.10,
			SufferScoreCeiling: 150,
			NudgeStepSeconds:   5,
			RecalcEveryRatings: 3,
		},
	}
}

// Load reads the configuration from ~/.critpace/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in zero-valued engine fields with the defaults
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Engine.LookbackDays == 0 {
		c.Engine.LookbackDays = defaults.Engine.LookbackDays
	}
	if c.Engine.MinDurationSeconds == 0 {
		c.Engine.MinDurationSeconds = defaults.Engine.MinDurationSeconds
	}
	if c.Engine.MinSamples == 0 {
		c.Engine.MinSamples = defaults.Engine.MinSamples
	}
	if c.Engine.OutlierTrimPct == 0 {
		c.Engine.OutlierTrimPct = defaults.Engine.OutlierTrimPct
	}
	if c.Engine.SufferScoreCeiling == 0 {
		c.Engine.SufferScoreCeiling = defaults.Engine.SufferScoreCeiling
	}
	if c.Engine.NudgeStepSeconds == 0 {
		c.Engine.NudgeStepSeconds = defaults.Engine.NudgeStepSeconds
	}
	if c.Engine.RecalcEveryRatings == 0 {
		c.Engine.RecalcEveryRatings = defaults.Engine.RecalcEveryRatings
	}
}

// Save writes the configuration to ~/.critpace/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}
	example.Athlete = AthleteConfig{MaxHR: 185}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}

	if c.Athlete.MaxHR != 0 && (c.Athlete.MaxHR < 100 || c.Athlete.MaxHR > 230) {
		return fmt.Errorf("athlete.max_hr (%v) must be between 100 and 230 bpm", c.Athlete.MaxHR)
	}

	if c.Engine.OutlierTrimPct < 0 || c.Engine.OutlierTrimPct >= 0.5 {
		return fmt.Errorf("engine.outlier_trim_pct (%v) must be in [0, 0.5)", c.Engine.OutlierTrimPct)
	}
	if c.Engine.MinSamples < 2 {
		return fmt.Errorf("engine.min_samples (%d) must be at least 2", c.Engine.MinSamples)
	}
	if c.Engine.NudgeStepSeconds < 0 {
		return fmt.Errorf("engine.nudge_step_seconds (%v) must not be negative", c.Engine.NudgeStepSeconds)
	}
	if c.Engine.RecalcEveryRatings < 1 {
		return fmt.Errorf("engine.recalc_every_ratings (%d) must be at least 1", c.Engine.RecalcEveryRatings)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".critpace", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".critpace"), nil
}
