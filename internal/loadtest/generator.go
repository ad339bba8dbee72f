package loadtest

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/activities/pkg/logger"
)

// generateEmails creates n unique participant emails.
func generateEmails(ctx context.Context, n int, stats *Stats) []string {
	logger.Get().Info(ctx, "generating participant emails", logger.Int("participants", n))

	emails := make([]string, n)
	for i := range emails {
		emails[i] = "student-" + uuid.NewString() + "@" + EmailDomain
	}

	stats.ParticipantsGenerated = n
	return emails
}
