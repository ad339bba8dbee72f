package loadtest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/activities/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger. When logFile is set, output
// goes to both stdout and the file. Verbose lowers the level to debug.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Activity Signup Load Test
=========================

Signs synthetic participants up for one activity concurrently, verifies
the registry, then unregisters them and checks the activity is restored.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -activity string
        Activity to exercise (default "Chess Club")
  -participants int
        Number of synthetic participants (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write logs to this file
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Test with default settings
  go run ./cmd/loadtest

  # Hammer a single club
  go run ./cmd/loadtest -activity "Gym Class" -participants 5000 -workers 32
`)
}
