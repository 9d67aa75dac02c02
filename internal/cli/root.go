// Package cli wires the relnote commands together: flag parsing, config
// loading, and top-level error rendering. All domain work happens in the
// internal packages this one composes.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/version"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "relnote",
	Short: "Generate release changelogs from merged pull requests",
	Long: `relnote correlates merged pull requests with a commit range in the
local repository and emits the matches as changelog entries, oldest first.

The default range runs from the branch's most recent reachable tag to HEAD.
Pull requests are matched by their landing commit (merge commit, or head
commit for squash/rebase merges). Because the provider offers no range
query, fetching stops after a bounded number of out-of-range records;
raising --max-skips trades API calls for recall on older ranges.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable debug diagnostics on stderr")
}

// Execute runs the root command. Categorized errors are rendered with
// remediation guidance and terminate the process with their category's
// exit code; anything else is reported plainly.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	if e := errors.As(err); e != nil {
		errors.Fprint(os.Stderr, e)
		os.Exit(exitCodeFor(e.Category))
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
