package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Telnet: TelnetConfig{
			Host:           "0.0.0.0",
			Port:           4000,
			ReadTimeout:    10 * time.Minute,
			WriteTimeout:   30 * time.Second,
			MaxConnections: 64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dungeon: DungeonConfig{
			StartingLevel:          1,
			StartingHealth:         100,
			PlacementRetries:       64,
			ScriptInstructionLimit: 100000,
			Layout: LayoutConfig{
				MinCol: 2, MaxCol: 11,
				MinRow: 2, MaxRow: 6,
				DoorInsetCols: 2, DoorInsetRows: 1,
			},
		},
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestTelnetAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:4000", cfg.Telnet.Addr())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
telnet:
  host: 127.0.0.1
  port: 4001
  read_timeout: 1m
logging:
  level: debug
  format: console
dungeon:
  seed: 1234
  starting_health: 20
  tables_file: content/dungeon/tables.yaml
  layout:
    max_col: 15
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4001, cfg.Telnet.Port)
	assert.Equal(t, time.Minute, cfg.Telnet.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, int64(1234), cfg.Dungeon.Seed)
	assert.Equal(t, uint(20), cfg.Dungeon.StartingHealth)
	assert.Equal(t, "content/dungeon/tables.yaml", cfg.Dungeon.TablesFile)
	assert.Equal(t, 15, cfg.Dungeon.Layout.MaxCol)
	assert.Equal(t, 2, cfg.Dungeon.Layout.MinCol, "unset keys keep their defaults")
}

func TestLoadDefaultsMatchValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, validConfig(), cfg)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("DUNGEON_DUNGEON_SEED", "77")
	t.Setenv("DUNGEON_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "dungeon:\n  seed: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Dungeon.Seed)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, uint(1), cfg.Dungeon.StartingLevel)
	assert.Equal(t, 64, cfg.Dungeon.PlacementRetries)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "logging:\n  level: trace\ndungeon:\n  starting_health: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "dungeon.starting_health")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateTelnet(t *testing.T) {
	cfg := validConfig()
	cfg.Telnet.Port = 0
	assert.NoError(t, cfg.Validate(), "port 0 selects a free port")

	cfg = validConfig()
	cfg.Telnet.Port = 65536
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Telnet.MaxConnections = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateDungeon(t *testing.T) {
	cfg := validConfig()
	cfg.Dungeon.PlacementRetries = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Dungeon.ScriptInstructionLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Dungeon.Layout.MinRow = cfg.Dungeon.Layout.MaxRow
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Dungeon.Layout.MaxCol = 300
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(0, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, -1),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.Telnet.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}

func TestPropertyLayoutOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.IntRange(0, 254).Draw(t, "lo")
		hi := rapid.IntRange(0, 255).Draw(t, "hi")
		cfg := validConfig()
		cfg.Dungeon.Layout.MinCol = lo
		cfg.Dungeon.Layout.MaxCol = hi
		err := cfg.Validate()
		if (lo < hi) != (err == nil) {
			t.Fatalf("min_col=%d max_col=%d: got err=%v", lo, hi, err)
		}
	})
}
