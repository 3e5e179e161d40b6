// Package config provides Viper-based configuration loading for the dungeon
// server and tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TelnetConfig holds Telnet listener settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener. 0 picks a free port.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout; idle players are disconnected
	// after it elapses.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxConnections caps concurrent players; 0 means unlimited.
	MaxConnections int `mapstructure:"max_connections"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// LayoutConfig describes the playable interior of a room and its door spans.
type LayoutConfig struct {
	MinCol        int `mapstructure:"min_col"`
	MaxCol        int `mapstructure:"max_col"`
	MinRow        int `mapstructure:"min_row"`
	MaxRow        int `mapstructure:"max_row"`
	DoorInsetCols int `mapstructure:"door_inset_cols"`
	DoorInsetRows int `mapstructure:"door_inset_rows"`
}

// DungeonConfig holds generation and player settings.
type DungeonConfig struct {
	// Seed makes every dungeon reproducible; 0 draws from system entropy.
	Seed int64 `mapstructure:"seed"`
	// StartingLevel is the player's level when a session begins.
	StartingLevel uint `mapstructure:"starting_level"`
	// StartingHealth is the player's health when a session begins.
	StartingHealth uint `mapstructure:"starting_health"`
	// PlacementRetries bounds the rejection sampling attempts per enemy.
	PlacementRetries int `mapstructure:"placement_retries"`
	// TablesFile is an optional YAML file overriding door and enemy weights.
	TablesFile string `mapstructure:"tables_file"`
	// LevelScript is an optional Lua file defining enemy_level(distance).
	LevelScript string `mapstructure:"level_script"`
	// ScriptInstructionLimit caps VM instructions per level script call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`

	Layout LayoutConfig `mapstructure:"layout"`
}

// Config is the top-level application configuration.
type Config struct {
	Telnet  TelnetConfig  `mapstructure:"telnet"`
	Logging LoggingConfig `mapstructure:"logging"`
	Dungeon DungeonConfig `mapstructure:"dungeon"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDungeon(c.Dungeon); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 0 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 0-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if t.MaxConnections < 0 {
		errs = append(errs, fmt.Sprintf("telnet.max_connections must be >= 0, got %d", t.MaxConnections))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDungeon(d DungeonConfig) error {
	var errs []string
	if d.StartingHealth == 0 {
		errs = append(errs, "dungeon.starting_health must be > 0")
	}
	if d.PlacementRetries < 1 {
		errs = append(errs, fmt.Sprintf("dungeon.placement_retries must be >= 1, got %d", d.PlacementRetries))
	}
	if d.ScriptInstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("dungeon.script_instruction_limit must be >= 1, got %d", d.ScriptInstructionLimit))
	}
	if err := validateLayout(d.Layout); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLayout(l LayoutConfig) error {
	var errs []string
	fields := []struct {
		name  string
		value int
	}{
		{"min_col", l.MinCol}, {"max_col", l.MaxCol},
		{"min_row", l.MinRow}, {"max_row", l.MaxRow},
		{"door_inset_cols", l.DoorInsetCols}, {"door_inset_rows", l.DoorInsetRows},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 255 {
			errs = append(errs, fmt.Sprintf("dungeon.layout.%s must be 0-255, got %d", f.name, f.value))
		}
	}
	if l.MinCol >= l.MaxCol {
		errs = append(errs, "dungeon.layout.min_col must be less than max_col")
	}
	if l.MinRow >= l.MaxRow {
		errs = append(errs, "dungeon.layout.min_row must be less than max_row")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// Defaults returns the configuration built from defaults and DUNGEON_
// environment overrides alone, for tools run without a config file.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Defaults() (Config, error) {
	return LoadFromViper(newViper())
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with DUNGEON_ prefix
	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "10m")
	v.SetDefault("telnet.write_timeout", "30s")
	v.SetDefault("telnet.max_connections", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("dungeon.seed", 0)
	v.SetDefault("dungeon.starting_level", 1)
	v.SetDefault("dungeon.starting_health", 100)
	v.SetDefault("dungeon.placement_retries", 64)
	v.SetDefault("dungeon.tables_file", "")
	v.SetDefault("dungeon.level_script", "")
	v.SetDefault("dungeon.script_instruction_limit", 100000)
	v.SetDefault("dungeon.layout.min_col", 2)
	v.SetDefault("dungeon.layout.max_col", 11)
	v.SetDefault("dungeon.layout.min_row", 2)
	v.SetDefault("dungeon.layout.max_row", 6)
	v.SetDefault("dungeon.layout.door_inset_cols", 2)
	v.SetDefault("dungeon.layout.door_inset_rows", 1)
}
