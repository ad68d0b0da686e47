package cmd

const (
	// ExitSuccess indicates every executed request passed
	ExitSuccess = 0

	// ExitFailure indicates failures, a fatal run error, or bad usage
	ExitFailure = 1
)
