package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibromon/internal/app"
	"vibromon/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,power,value\nNA-1,10,7.2\n"), 0o644))

	out := &bytes.Buffer{}
	appHandle = app.NewApp(&config.Config{
		Source:    config.SourceConfig{Path: path},
		Scheduler: config.SchedulerConfig{Interval: time.Minute},
		Alerting:  config.AlertingConfig{MinZone: "C"},
		Export:    config.ExportConfig{ChartWidth: 320, ChartHeight: 200},
	}, zerolog.Nop())
	appHandle.Out = out
	t.Cleanup(func() {
		appHandle = nil
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := runCLI(t, "classify", "--vibration", "4.51", "--power", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "ZONE C - UNACCEPTABLE")
}

func TestClassifyRequiresFlags(t *testing.T) {
	classifyCmd.Flags().Lookup("vibration").Changed = false
	classifyCmd.Flags().Lookup("power").Changed = false

	_, err := runCLI(t, "classify", "--vibration", "1")
	require.Error(t, err)
}

func TestShowCommandUsesConfiguredSource(t *testing.T) {
	out, err := runCLI(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "NA-1")
	assert.Contains(t, out, "D")
}

func TestInspectRequiresID(t *testing.T) {
	inspectID = ""
	_, err := runCLI(t, "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vibromon dev")
}
