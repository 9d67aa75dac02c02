package config

// DefaultConfigTemplate returns a commented config template written by
// 'relnote config init' to help users discover the available options.
func DefaultConfigTemplate() string {
	return `# relnote configuration
# Values here are overridden by RELNOTE_* environment variables.

# GitHub project slug (owner/name). Empty = derived from the origin remote.
repo: ""

# Base branch pull requests were merged into. Empty = current checkout.
branch: ""

# Output format: list | structured
format: list

# Reconciliation stops after this many out-of-range pull requests.
# This is a cost/precision tradeoff, not a completeness guarantee.
max_skips: 50

# Pull requests requested per page (provider caps this at 100).
page_size: 100

# Per-page fetch timeout in seconds (0 = no timeout).
fetch_timeout: 30

# Fetch the next page speculatively while the current one is scanned.
prefetch: false

# Skip confirmation prompts (tag creation).
skip_confirmations: false
`
}

// Defaults returns the default configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"repo":   "",
		"branch": "",
		"format": "list",
		// max_skips: the bounded-effort termination threshold. 50 matches
		// the original tool; raising it trades API calls for recall on
		// ranges that are old relative to recent pull-request activity.
		"max_skips": 50,
		"page_size": 100,
		// fetch_timeout: seconds per page fetch. The provider is never
		// retried, so a hung call would otherwise stall the whole run.
		"fetch_timeout":      30,
		"prefetch":           false,
		"skip_confirmations": false,
	}
}
