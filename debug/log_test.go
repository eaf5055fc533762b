package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableFileWritesCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, EnableFile(path))
	defer Disable()

	assert.True(t, Enabled())
	Log("sched", "fired %d events", 3)
	Warn("load", "track %d skipped", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debug logging started")
	assert.Contains(t, string(data), "fired 3 events")
	assert.Contains(t, string(data), "cat=sched")
	assert.Contains(t, string(data), "track 2 skipped")
}

func TestSetOutputFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.InfoLevel)
	defer Disable()

	Log("poll", "hidden")
	Info("player", "shown %s", "here")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown here")
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, log.DebugLevel)
	defer Disable()

	for i := 0; i < 5; i++ {
		LogEvery(5, "every", "tick")
	}
	assert.Contains(t, buf.String(), "tick (every 5, count=5)")
}
