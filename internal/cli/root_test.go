package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davimalu/TourPlanner-sub000/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DBPath:    filepath.Join(t.TempDir(), "tourplanner.db"),
		Locale:    "en-US",
		LogLevel:  "error",
		LogFormat: config.LogFormatText,
	}
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	require.NotNil(t, cmd)
	assert.Equal(t, "tourplanner", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	commands := [][]string{
		{"tour", "list"},
		{"tour", "show"},
		{"tour", "delete"},
		{"tour", "add"},
		{"tour", "sync"},
		{"tour", "export"},
		{"log", "show"},
		{"search"},
		{"score"},
		{"check"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cfg := testConfig(t)
	cfg.Locale = "de-AT"
	cmd := NewRootCommandWithConfig(cfg)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, cfg.DBPath, dbFlag.DefValue, "--db defaults to TOURPLANNER_DB")

	localeFlag := cmd.PersistentFlags().Lookup("locale")
	require.NotNil(t, localeFlag)
	assert.Equal(t, "de-AT", localeFlag.DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	exportCmd, _, err := cmd.Find([]string{"tour", "export"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "", outputFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	cmd.SetArgs([]string{"--format", "invalid", "tour", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLocaleValidationIntegration(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	cmd.SetArgs([]string{"--locale", "not a locale!", "tour", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid locale")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnreadableDatabase(t *testing.T) {
	cmd := NewRootCommandWithConfig(testConfig(t))
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "missing", "dir", "x.db"), "tour", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
