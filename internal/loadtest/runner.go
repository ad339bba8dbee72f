package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/activities/pkg/logger"
)

// Run executes the complete signup load test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	if config.Participants < 0 {
		return stats, fmt.Errorf("%w: participants must not be negative, got %d", ErrInvalidConfig, config.Participants)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	logger.Get().Info(ctx, "starting activity signup load test",
		logger.String("baseURL", config.BaseURL),
		logger.String("activity", config.Activity),
		logger.Int("participants", config.Participants),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot the activity
	original, err := fetchParticipants(ctx, client, config.Activity)
	if err != nil {
		return stats, fmt.Errorf("activity lookup failed: %w", err)
	}

	// Step 3: Sign everyone up concurrently
	emails := generateEmails(ctx, config.Participants, stats)
	accepted, failed := submitAll(ctx, config, client, "signup", http.MethodPost, signupPath, emails)
	stats.SignupsSubmitted = len(emails)
	stats.SignupsSuccessful = len(accepted)
	stats.SignupsFailed = failed

	// Step 4: Verify
	if err := verifySignups(ctx, client, config, original, accepted); err != nil {
		return stats, err
	}
	if len(accepted) > 0 {
		if err := verifyDuplicateRejected(ctx, client, config, accepted[0]); err != nil {
			return stats, err
		}
		stats.DuplicateRejected = true
	}

	// Step 5: Unregister everyone that got in
	removed, failed := submitAll(ctx, config, client, "unregister", http.MethodDelete, unregisterPath, accepted)
	stats.UnregistersSubmitted = len(accepted)
	stats.UnregistersSuccessful = len(removed)
	stats.UnregistersFailed = failed

	// Step 6: The activity should look untouched
	if err := verifyRestored(ctx, client, config, original); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	status, _, err := client.Do(ctx, http.MethodGet, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.SignupsSubmitted > 0 {
		successRate = float64(stats.SignupsSuccessful) / float64(stats.SignupsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.SignupsSubmitted+stats.UnregistersSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("participantsGenerated", stats.ParticipantsGenerated),
		logger.Int("signupsSubmitted", stats.SignupsSubmitted),
		logger.Int("signupsSuccessful", stats.SignupsSuccessful),
		logger.Int("signupsFailed", stats.SignupsFailed),
		logger.Bool("duplicateRejected", stats.DuplicateRejected),
		logger.Int("unregistersSuccessful", stats.UnregistersSuccessful),
		logger.Int("unregistersFailed", stats.UnregistersFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
