package errors

import "fmt"

// Common error messages for the relnote CLI.
// These templates keep remediation guidance consistent across commands.

// NoTagOnBranch creates an error for a branch with no reachable release tag.
func NoTagOnBranch(branch string) *Error {
	return NewResolutionError(
		fmt.Sprintf("no tag reachable from branch %q", branch),
		"Pass an explicit range instead: relnote generate --range v1.2.0..HEAD",
		"Or create a starting tag: git tag v0.1.0 <commit>",
	)
}

// BranchNotFound creates an error for a branch that does not resolve to a commit.
func BranchNotFound(branch string) *Error {
	return NewResolutionError(
		fmt.Sprintf("branch %q cannot be resolved to a commit", branch),
		"Check the branch name with 'git branch --list'",
		"Fetch first if the branch only exists on a remote",
	)
}

// EmptyRange creates a traversal error for a range with no commits.
// This can be legitimate (nothing landed since the last tag).
func EmptyRange(expr string) *Error {
	return NewTraversalError(
		fmt.Sprintf("range %q contains no commits", expr),
		"Verify the range endpoints with 'git log <range>'",
	)
}

// UnknownFormat creates an error for an unrecognized output mode.
func UnknownFormat(mode string) *Error {
	return NewConfigError(
		fmt.Sprintf("unknown output format %q", mode),
		"Valid formats: list, structured",
	)
}

// RecordMissingNumber creates a data-integrity error for a pull-request
// record without a number. Such a record cannot be deduplicated or
// reported, so the run aborts rather than under-reporting silently.
func RecordMissingNumber(page int) *Error {
	return NewConfigError(
		fmt.Sprintf("pull-request record on page %d has no number", page),
		"This indicates a malformed provider response; retry the run",
	)
}
