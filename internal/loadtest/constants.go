package loadtest

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	EmailDomain          = "loadtest.mergington.edu"
)

// Error codes the runner expects from the API.
const (
	codeAlreadySignedUp = "already_signed_up"
)
