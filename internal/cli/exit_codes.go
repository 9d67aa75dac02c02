package cli

import "github.com/ariel-frischer/relnote/internal/errors"

// Exit codes for the relnote CLI. Each fatal error category gets its own
// code so scripts can tell resolution, traversal, fetch, and configuration
// failures apart.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitFailure indicates a generic, uncategorized failure.
	ExitFailure = 1

	// ExitResolution indicates the range or branch could not be determined.
	ExitResolution = 2

	// ExitTraversal indicates the range yielded no valid commit enumeration.
	ExitTraversal = 3

	// ExitFetch indicates a pull-request provider call failed.
	ExitFetch = 4

	// ExitConfig indicates invalid configuration or malformed provider data.
	ExitConfig = 5
)

// exitCodeFor maps an error category to its exit code.
func exitCodeFor(category errors.Category) int {
	switch category {
	case errors.Resolution:
		return ExitResolution
	case errors.Traversal:
		return ExitTraversal
	case errors.Fetch:
		return ExitFetch
	case errors.Config:
		return ExitConfig
	default:
		return ExitFailure
	}
}
