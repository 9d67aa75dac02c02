package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relnote/internal/config"
	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/gitrepo"
)

var (
	tagMessageFlag string
	tagTargetFlag  string
	tagYesFlag     bool
)

var tagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "Create an annotated release tag",
	Long: `Create an annotated tag at HEAD (or --target), typically after reviewing
the generated changelog. Tags are not signed and not pushed.

Examples:
  relnote tag v1.4.0
  relnote tag v1.4.0 --message "Release 1.4.0"
  relnote tag v1.4.0 --target release/1.4 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTag(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.Flags().StringVarP(&tagMessageFlag, "message", "m", "",
		"Tag annotation message (default: the tag name)")
	tagCmd.Flags().StringVar(&tagTargetFlag, "target", "",
		"Revision to tag (default: HEAD)")
	tagCmd.Flags().BoolVarP(&tagYesFlag, "yes", "y", false,
		"Skip the confirmation prompt")
}

func runTag(cmd *cobra.Command, name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	repo, err := gitrepo.Open("")
	if err != nil {
		return errors.Wrap(err, errors.Resolution, "opening repository",
			"Run relnote inside a git checkout")
	}

	if !tagYesFlag && !cfg.SkipConfirmations {
		target := tagTargetFlag
		if target == "" {
			target = "HEAD"
		}
		if !confirm(cmd, fmt.Sprintf("Create annotated tag %q at %s?", name, target)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	err = gitrepo.CreateAnnotatedTag(repo, gitrepo.TagOptions{
		Name:    name,
		Message: tagMessageFlag,
		Target:  tagTargetFlag,
	})
	if err != nil {
		return errors.Wrap(err, errors.Resolution, "creating tag")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s\n", name)
	return nil
}

// confirm asks a yes/no question on the command's streams. Anything but an
// explicit yes declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
