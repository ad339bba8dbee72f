package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/activities/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Do sends a bodyless request and returns the status and body.
func (c *HTTPClient) Do(ctx context.Context, method, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// ListActivities fetches the full catalog.
func (c *HTTPClient) ListActivities(ctx context.Context) (map[string]Activity, error) {
	status, body, err := c.Do(ctx, http.MethodGet, "/activities")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list activities: %d", ErrUnexpectedStatus, status)
	}

	var out map[string]Activity
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return out, nil
}

func signupPath(activity, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/signup?email=" + url.QueryEscape(email)
}

func unregisterPath(activity, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/participants?email=" + url.QueryEscape(email)
}

// result of one submitted request
type result struct {
	email string
	ok    bool
}

// submitAll runs method against path(email) for every email using a worker
// pool and returns the emails that got a 200.
func submitAll(ctx context.Context, config *Config, client *HTTPClient, op, method string,
	path func(activity, email string) string, emails []string,
) (succeeded []string, failed int) {
	logger.Get().Info(ctx, "submitting requests",
		logger.String("operation", op),
		logger.Int("requests", len(emails)),
		logger.Int("workers", config.Workers))

	var submitted int64

	emailChan := make(chan string, config.Workers*WorkerChannelMultiplier)
	results := make(chan result, len(emails))
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for email := range emailChan {
				status, body, err := client.Do(ctx, method, path(config.Activity, email))
				atomic.AddInt64(&submitted, 1)

				ok := err == nil && status == http.StatusOK
				if config.Verbose && err == nil {
					logger.Get().Debug(ctx, "request completed",
						logger.String("operation", op),
						logger.String("email", email),
						logger.Int("status", status),
						logger.String("message", responseMessage(ok, body)))
				}
				if err != nil {
					logger.Get().Warn(ctx, "request failed",
						logger.String("operation", op),
						logger.String("email", email),
						logger.Error(err))
				}
				results <- result{email: email, ok: ok}
			}
		}()
	}

	go func() {
		defer close(emailChan)
		for _, email := range emails {
			select {
			case <-ctx.Done():
				return
			case emailChan <- email:
			}
		}
	}()

	wg.Wait()
	close(results)

	for r := range results {
		if r.ok {
			succeeded = append(succeeded, r.email)
		} else {
			failed++
		}
	}
	// Emails never dispatched because ctx ended count as failed.
	failed += len(emails) - int(atomic.LoadInt64(&submitted))

	logger.Get().Info(ctx, "submission completed",
		logger.String("operation", op),
		logger.Int("successful", len(succeeded)),
		logger.Int("failed", failed))
	return succeeded, failed
}

// responseMessage extracts the human readable message from a success or
// error body, falling back to the raw body.
func responseMessage(ok bool, body []byte) string {
	if ok {
		var resp MessageResponse
		if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
			return resp.Message
		}
		return string(body)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Code != "" {
		return resp.Code + ": " + resp.Message
	}
	return string(body)
}
