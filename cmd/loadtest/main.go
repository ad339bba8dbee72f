package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/activities/internal/loadtest"
)

// Default configuration constants.
const (
	defaultParticipants = 200
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultTestTimeout  = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL      = flag.String("url", "http://localhost:8000", "Base URL of the service")
		activityName = flag.String("activity", "Chess Club", "Activity to exercise")
		participants = flag.Int("participants", defaultParticipants, "Number of synthetic participants")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile      = flag.String("log", "", "Also write logs to this file")
		verbose      = flag.Bool("verbose", false, "Log every request")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return 0
	}

	closer, err := loadtest.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:      *baseURL,
		Activity:     *activityName,
		Participants: *participants,
		Workers:      *workers,
		Timeout:      *timeout,
		Verbose:      *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
