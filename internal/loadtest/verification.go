package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/okian/activities/pkg/logger"
)

// verifySignups checks every accepted email is listed exactly once and the
// original participants are still present.
func verifySignups(ctx context.Context, client *HTTPClient, config *Config, original, accepted []string) error {
	logger.Get().Info(ctx, "verifying signups")

	current, err := fetchParticipants(ctx, client, config.Activity)
	if err != nil {
		return err
	}

	counts := make(map[string]int, len(current))
	for _, p := range current {
		counts[p]++
	}
	for _, email := range accepted {
		if counts[email] != 1 {
			return fmt.Errorf("%w: %s listed %d times", ErrVerification, email, counts[email])
		}
	}
	for _, email := range original {
		if counts[email] != 1 {
			return fmt.Errorf("%w: original participant %s listed %d times", ErrVerification, email, counts[email])
		}
	}

	logger.Get().Info(ctx, "signups verified", logger.Int("participants", len(current)))
	return nil
}

// verifyDuplicateRejected re-submits an accepted email and expects a 400
// carrying the already-signed-up code.
func verifyDuplicateRejected(ctx context.Context, client *HTTPClient, config *Config, email string) error {
	status, body, err := client.Do(ctx, http.MethodPost, signupPath(config.Activity, email))
	if err != nil {
		return err
	}
	if status != http.StatusBadRequest {
		return fmt.Errorf("%w: duplicate signup returned %d", ErrVerification, status)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to decode error response: %w", err)
	}
	if resp.Code != codeAlreadySignedUp {
		return fmt.Errorf("%w: duplicate signup returned code %q", ErrVerification, resp.Code)
	}

	logger.Get().Info(ctx, "duplicate signup rejected", logger.String("message", resp.Message))
	return nil
}

// verifyRestored checks the activity is back to its original participants.
func verifyRestored(ctx context.Context, client *HTTPClient, config *Config, original []string) error {
	logger.Get().Info(ctx, "verifying participant set was restored")

	current, err := fetchParticipants(ctx, client, config.Activity)
	if err != nil {
		return err
	}
	if !slices.Equal(current, original) {
		return fmt.Errorf("%w: participants %v, want %v", ErrVerification, current, original)
	}
	return nil
}

func fetchParticipants(ctx context.Context, client *HTTPClient, name string) ([]string, error) {
	activities, err := client.ListActivities(ctx)
	if err != nil {
		return nil, err
	}
	a, ok := activities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrActivityMissing, name)
	}
	return a.Participants, nil
}
