package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Activity     string        // Activity to sign participants up for
	Participants int           // Number of synthetic participants
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Verbose      bool          // Enable per-request logging
}

// Activity mirrors the record returned by GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// MessageResponse is the success body of signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body of every API route.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds test statistics.
type Stats struct {
	ParticipantsGenerated int
	SignupsSubmitted      int
	SignupsSuccessful     int
	SignupsFailed         int
	DuplicateRejected     bool
	UnregistersSubmitted  int
	UnregistersSuccessful int
	UnregistersFailed     int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
