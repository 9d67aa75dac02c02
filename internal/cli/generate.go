package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/relnote/internal/config"
	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/format"
	"github.com/ariel-frischer/relnote/internal/githubapi"
	"github.com/ariel-frischer/relnote/internal/gitrange"
	"github.com/ariel-frischer/relnote/internal/gitrepo"
	"github.com/ariel-frischer/relnote/internal/logging"
	"github.com/ariel-frischer/relnote/internal/reconcile"
)

var (
	generateBranchFlag   string
	generateRangesFlag   []string
	generateFormatFlag   string
	generateRepoFlag     string
	generateMaxSkipsFlag int
	generatePageSizeFlag int
	generatePrefetchFlag bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Emit changelog entries for pull requests merged into a range",
	Long: `Generate changelog entries by matching closed pull requests against a
commit range.

With no flags, the range runs from the most recent tag reachable on the
current branch to HEAD. Explicit ranges skip tag resolution entirely.

Examples:
  relnote generate                               # latest-tag..HEAD on the current branch
  relnote generate --branch release/1.4          # latest-tag..HEAD on another branch
  relnote generate --range v1.3.0..v1.4.0        # explicit range
  relnote generate --range v1.3.0..v1.4.0 --range v1.4.1..HEAD
  relnote generate --format structured           # one JSON object per entry`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateBranchFlag, "branch", "b", "",
		"Base branch (default: current checkout)")
	generateCmd.Flags().StringArrayVarP(&generateRangesFlag, "range", "r", nil,
		"Explicit commit range, e.g. v1.2.0..HEAD (repeatable)")
	generateCmd.Flags().StringVarP(&generateFormatFlag, "format", "f", "",
		"Output format: list | structured")
	generateCmd.Flags().StringVar(&generateRepoFlag, "repo", "",
		"GitHub repository slug owner/name (default: origin remote)")
	generateCmd.Flags().IntVar(&generateMaxSkipsFlag, "max-skips", 0,
		"Stop after this many out-of-range pull requests (default 50)")
	generateCmd.Flags().IntVar(&generatePageSizeFlag, "page-size", 0,
		"Pull requests per page, 1-100 (default 100)")
	generateCmd.Flags().BoolVar(&generatePrefetchFlag, "prefetch", false,
		"Fetch the next page while scanning the current one")
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := loadGenerateConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.Setup(verboseFlag)

	repo, err := gitrepo.Open("")
	if err != nil {
		return errors.Wrap(err, errors.Resolution, "opening repository",
			"Run relnote inside a git checkout")
	}

	resolver := gitrange.NewResolver(repo)
	branch := cfg.Branch

	var ranges []gitrange.Range
	if len(generateRangesFlag) > 0 {
		ranges = resolver.FromExplicit(generateRangesFlag)
	} else {
		if branch == "" {
			branch, err = gitrepo.CurrentBranch(repo)
			if err != nil {
				return errors.Wrap(err, errors.Resolution, "detecting current branch")
			}
			if branch == "" {
				return errors.NewResolutionError("detached HEAD: no branch to resolve",
					"Pass --branch or an explicit --range")
			}
		}
		rng, err := resolver.FromBranch(branch)
		if err != nil {
			return err
		}
		logger.Debug("resolved branch range", "branch", branch, "range", rng.Expr)
		ranges = []gitrange.Range{rng}
	}

	index, err := gitrange.BuildIndex(repo, ranges)
	if err != nil {
		return err
	}
	logger.Debug("built commit index", "commits", index.Len())

	slug := cfg.Repo
	if slug == "" {
		slug, err = gitrepo.OriginSlug(repo)
		if err != nil {
			return errors.Wrap(err, errors.Config, "deriving repository slug",
				"Pass --repo owner/name or set repo in the config")
		}
	}

	client, err := githubapi.NewClient(githubapi.Options{
		Repo:       slug,
		BaseBranch: branch,
		Token:      os.Getenv("GITHUB_TOKEN"),
		PageSize:   cfg.PageSize,
		Timeout:    time.Duration(cfg.FetchTimeout) * time.Second,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	stop := startProgress("fetching pull requests")
	matches, err := reconcile.New(client, index, reconcile.Options{
		MaxSkips: cfg.MaxSkips,
		Prefetch: cfg.Prefetch,
		Logger:   logger,
	}).Run(cmd.Context())
	stop()
	if err != nil {
		return err
	}
	logger.Debug("reconciliation finished", "matches", len(matches))

	// Output is committed only now, after the whole loop succeeded.
	return format.Render(cmd.OutOrStdout(), cfg.Format, index.Ordered(), matches)
}

// loadGenerateConfig loads the layered configuration and applies explicit
// flag overrides, then re-validates the result.
func loadGenerateConfig(cmd *cobra.Command) (*config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("branch") {
		cfg.Branch = generateBranchFlag
	}
	if flags.Changed("format") {
		cfg.Format = generateFormatFlag
	}
	if flags.Changed("repo") {
		cfg.Repo = generateRepoFlag
	}
	if flags.Changed("max-skips") {
		cfg.MaxSkips = generateMaxSkipsFlag
	}
	if flags.Changed("page-size") {
		cfg.PageSize = generatePageSizeFlag
	}
	if flags.Changed("prefetch") {
		cfg.Prefetch = generatePrefetchFlag
	}

	if err := config.ValidateSettings(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startProgress shows a spinner on stderr while pages are fetched, unless
// stderr is not a terminal or verbose diagnostics are on. The returned
// function stops it.
func startProgress(message string) func() {
	if verboseFlag || !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}

// Compile-time checks that the concrete collaborators satisfy the
// reconciler's interfaces.
var (
	_ reconcile.PageSource = (*githubapi.Client)(nil)
	_ reconcile.CommitSet  = (*gitrange.Index)(nil)
)
