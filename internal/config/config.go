package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"runcoach/internal/coaching"
)

// HomeEnv overrides the data directory (default ~/.runcoach)
const HomeEnv = "RUNCOACH_HOME"

// Config represents the application configuration
type Config struct {
	Profile  ProfileConfig  `json:"profile"`
	Coaching CoachingConfig `json:"coaching"`
	Display  DisplayConfig  `json:"display"`
	Replay   ReplayConfig   `json:"replay"`
}

// ProfileConfig holds the runner's baseline
type ProfileConfig struct {
	Level               string  `json:"level"`
	TypicalPaceSecPerKm float64 `json:"typical_pace_sec_per_km"`
	Goal                string  `json:"goal"`
}

// CoachingConfig holds engine tuning
type CoachingConfig struct {
	Cooldowns CooldownConfig `json:"cooldowns"`
}

// CooldownConfig is the per-urgency cooldown, in seconds
type CooldownConfig struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `json:"distance_unit"`
	PaceUnit     string `json:"pace_unit"`
}

// ReplayConfig holds scenario playback settings
type ReplayConfig struct {
	TickMS            int     `json:"tick_ms"`
	SampleIntervalSec float64 `json:"sample_interval_sec"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Profile: ProfileConfig{
			Level:               string(coaching.LevelIntermediate),
			TypicalPaceSecPerKm: 300,
			Goal:                string(coaching.RunGoalEasy),
		},
		Coaching: CoachingConfig{
			Cooldowns: CooldownConfig{
				Low:    60,
				Medium: 45,
				High:   30,
			},
		},
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
		Replay: ReplayConfig{
			TickMS:            500,
			SampleIntervalSec: 3,
		},
	}
}

// Load reads the configuration from the config file
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

// LoadOrDefault loads the config file, falling back to defaults when there is none
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if errors.Is(err, ErrNoConfig) {
		defaults := DefaultConfig()
		return &defaults, nil
	}
	return cfg, err
}

// applyDefaults fills zero values from DefaultConfig
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Profile.Level == "" {
		c.Profile.Level = defaults.Profile.Level
	}
	if c.Profile.TypicalPaceSecPerKm == 0 {
		c.Profile.TypicalPaceSecPerKm = defaults.Profile.TypicalPaceSecPerKm
	}
	if c.Profile.Goal == "" {
		c.Profile.Goal = defaults.Profile.Goal
	}
	if c.Coaching.Cooldowns.Low == 0 {
		c.Coaching.Cooldowns.Low = defaults.Coaching.Cooldowns.Low
	}
	if c.Coaching.Cooldowns.Medium == 0 {
		c.Coaching.Cooldowns.Medium = defaults.Coaching.Cooldowns.Medium
	}
	if c.Coaching.Cooldowns.High == 0 {
		c.Coaching.Cooldowns.High = defaults.Coaching.Cooldowns.High
	}
	if c.Display.DistanceUnit == "" {
		c.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if c.Display.PaceUnit == "" {
		c.Display.PaceUnit = defaults.Display.PaceUnit
	}
	if c.Replay.TickMS == 0 {
		c.Replay.TickMS = defaults.Replay.TickMS
	}
	if c.Replay.SampleIntervalSec == 0 {
		c.Replay.SampleIntervalSec = defaults.Replay.SampleIntervalSec
	}
}

// Save writes the configuration to the config file
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

// CreateExample creates an example config file if none exists.
// It reports whether a file was written.
func CreateExample() (bool, error) {
	path, err := getConfigPath()
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	if err := Save(&example); err != nil {
		return false, err
	}
	return true, nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if err := c.Profile.Validate(); err != nil {
		return err
	}

	cd := c.Coaching.Cooldowns
	if cd.Low <= 0 || cd.Medium <= 0 || cd.High <= 0 {
		return fmt.Errorf("coaching.cooldowns must all be positive, got low=%v medium=%v high=%v", cd.Low, cd.Medium, cd.High)
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	if c.Replay.TickMS < 0 {
		return fmt.Errorf("replay.tick_ms must not be negative, got %d", c.Replay.TickMS)
	}
	if c.Replay.SampleIntervalSec < 0 {
		return fmt.Errorf("replay.sample_interval_sec must not be negative, got %v", c.Replay.SampleIntervalSec)
	}

	return nil
}

// Validate checks the runner profile
func (p ProfileConfig) Validate() error {
	switch coaching.Level(p.Level) {
	case coaching.LevelBeginner, coaching.LevelIntermediate, coaching.LevelAdvanced:
	default:
		return fmt.Errorf("profile.level must be \"beginner\", \"intermediate\" or \"advanced\", got %q", p.Level)
	}
	switch coaching.RunGoal(p.Goal) {
	case coaching.RunGoalEasy, coaching.RunGoalTempo, coaching.RunGoalLong, coaching.RunGoalInterval:
	default:
		return fmt.Errorf("profile.goal must be \"easy\", \"tempo\", \"long\" or \"interval\", got %q", p.Goal)
	}
	if p.TypicalPaceSecPerKm <= 0 {
		return fmt.Errorf("profile.typical_pace_sec_per_km must be positive, got %v", p.TypicalPaceSecPerKm)
	}
	return nil
}

// ToProfile converts the profile section into the engine's profile
func (p ProfileConfig) ToProfile() coaching.Profile {
	return coaching.Profile{
		Level:               coaching.Level(p.Level),
		TypicalPaceSecPerKm: p.TypicalPaceSecPerKm,
		Goal:                coaching.RunGoal(p.Goal),
	}
}

// ToCooldowns converts the cooldown seconds into the engine's table
func (c CooldownConfig) ToCooldowns() coaching.Cooldowns {
	return coaching.Cooldowns{
		Low:    seconds(c.Low),
		Medium: seconds(c.Medium),
		High:   seconds(c.High),
	}
}

// TickInterval returns the viewer playback cadence
func (r ReplayConfig) TickInterval() time.Duration {
	return time.Duration(r.TickMS) * time.Millisecond
}

// SampleInterval returns the minimum spacing between replayed snapshots
func (r ReplayConfig) SampleInterval() time.Duration {
	return seconds(r.SampleIntervalSec)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runcoach"), nil
}
