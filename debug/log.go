package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	file    *os.File
	mu      sync.Mutex
	enabled bool

	logger = log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
)

// Enable starts debug logging to ~/.config/go-playerpiano/debug.log
func Enable() error {
	homeDir, _ := os.UserHomeDir()
	return EnableFile(filepath.Join(homeDir, ".config", "go-playerpiano", "debug.log"))
}

// EnableFile starts debug logging to the given file, truncating it
func EnableFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	// Ensure directory exists
	os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	logger.SetOutput(f)
	logger.SetLevel(log.DebugLevel)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("15:04:05.000")
	logger.Debug("=== Debug logging started ===", "cat", "debug")

	return nil
}

// SetOutput sends log output to w at the given minimum level.
// Used by headless mode to log to stderr.
func SetOutput(w io.Writer, level log.Level) {
	mu.Lock()
	defer mu.Unlock()

	enabled = w != io.Discard
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("15:04:05.000")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	logger.SetOutput(io.Discard)
	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Enabled reports whether log output is going anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a debug message under a category
func Log(category, format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), "cat", category)
}

// Info writes an informational message under a category
func Info(category, format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...), "cat", category)
}

// Warn writes a warning under a category
func Warn(category, format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...), "cat", category)
}

// Error writes an error message under a category
func Error(category, format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...), "cat", category)
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
