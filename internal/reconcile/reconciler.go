// Package reconcile matches closed pull requests against a commit range.
// The provider cannot answer "which pull requests merged into this range"
// directly, so the reconciler scans the closed-PR listing newest-updated
// first and stops after a bounded number of out-of-range records. That
// bound is a deliberate precision/cost tradeoff: a very old pull request
// landing inside an old range can be missed when enough newer, out-of-range
// pull requests precede it in the fetch order.
package reconcile

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/relnote/internal/githubapi"
)

// DefaultMaxSkips is the default termination threshold.
const DefaultMaxSkips = 50

// PageSource is a lazy page sequence of closed pull requests, 1-based,
// sorted by most recent update. An empty page means the listing is
// exhausted. Errors are never retried here: a failed fetch is fatal for
// the whole run, since partial results would silently under-report.
type PageSource interface {
	FetchPage(ctx context.Context, page int) ([]githubapi.PullRequest, error)
}

// CommitSet answers membership queries for the commit range.
type CommitSet interface {
	Contains(id string) bool
}

// Matches maps a landing-commit identifier to the pull request that
// claimed it. At most one record per commit: the first record seen wins,
// which with newest-updated-first fetch order keeps the authoritative one.
type Matches map[string]githubapi.PullRequest

// Options tunes a reconciliation run.
type Options struct {
	// MaxSkips is the cumulative out-of-range threshold. 0 means
	// DefaultMaxSkips.
	MaxSkips int
	// Prefetch fetches one page speculatively while the current page is
	// scanned. The termination decision is still evaluated strictly in
	// page order.
	Prefetch bool
	// Logger receives skip-and-continue diagnostics. Nil disables them.
	Logger *slog.Logger
}

// Reconciler drives the fetch-and-match loop. It is single-use state for
// one invocation; nothing is persisted.
type Reconciler struct {
	source   PageSource
	set      CommitSet
	maxSkips int
	prefetch bool
	logger   *slog.Logger
}

// New builds a Reconciler over a page source and a commit set.
func New(source PageSource, set CommitSet, opts Options) *Reconciler {
	maxSkips := opts.MaxSkips
	if maxSkips <= 0 {
		maxSkips = DefaultMaxSkips
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{
		source:   source,
		set:      set,
		maxSkips: maxSkips,
		prefetch: opts.Prefetch,
		logger:   logger,
	}
}

// state is the mutable reconciliation state for one run: the page counter,
// the cumulative not-found counter, and the growing match map. It is owned
// exclusively by the consuming loop.
type state struct {
	notFound int
	matches  Matches
}

// Run executes the reconciliation loop and returns the match map. On any
// fetch failure the accumulated matches are discarded and the error
// propagates unchanged.
func (r *Reconciler) Run(ctx context.Context) (Matches, error) {
	if r.prefetch {
		return r.runPipelined(ctx)
	}
	return r.runSequential(ctx)
}

// runSequential fetches and scans pages strictly one at a time. When the
// skip threshold is reached on a page, the next page is never requested.
func (r *Reconciler) runSequential(ctx context.Context) (Matches, error) {
	st := &state{matches: make(Matches)}

	for page := 1; ; page++ {
		records, err := r.source.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			r.logger.Debug("pull-request listing exhausted", "pages", page-1)
			break
		}

		r.scanPage(page, records, st)

		if st.notFound >= r.maxSkips {
			r.logger.Debug("skip threshold reached",
				"page", page, "not_found", st.notFound, "max_skips", r.maxSkips)
			break
		}
	}

	return st.matches, nil
}

// runPipelined overlaps the next page fetch with scanning of the current
// one. Pages arrive on a buffered channel in fetch order, so the
// termination decision is taken at the same sequential commit point as the
// plain loop. A fetch error from a page past the termination point was
// speculative work and is discarded.
func (r *Reconciler) runPipelined(ctx context.Context) (Matches, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type fetched struct {
		page    int
		records []githubapi.PullRequest
	}

	pages := make(chan fetched, 1)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(pages)
		for page := 1; ; page++ {
			records, err := r.source.FetchPage(groupCtx, page)
			if err != nil {
				return err
			}
			select {
			case pages <- fetched{page: page, records: records}:
			case <-groupCtx.Done():
				return nil
			}
			if len(records) == 0 {
				return nil
			}
		}
	})

	st := &state{matches: make(Matches)}
	terminated := false

	for f := range pages {
		if len(f.records) == 0 {
			r.logger.Debug("pull-request listing exhausted", "pages", f.page-1)
			terminated = true
			break
		}

		r.scanPage(f.page, f.records, st)

		if st.notFound >= r.maxSkips {
			r.logger.Debug("skip threshold reached",
				"page", f.page, "not_found", st.notFound, "max_skips", r.maxSkips)
			terminated = true
			break
		}
	}

	cancel()
	err := group.Wait()
	if !terminated && err != nil {
		return nil, err
	}
	return st.matches, nil
}

// scanPage applies the landing-commit policy to each record on a page and
// updates the run state. Records without any landing commit are skipped
// with a diagnostic and do not count against the threshold.
func (r *Reconciler) scanPage(page int, records []githubapi.PullRequest, st *state) {
	matched := 0
	for _, record := range records {
		commit, ok := record.LandingCommit()
		if !ok {
			r.logger.Debug("skipping pull request without commits",
				"number", record.Number, "page", page)
			continue
		}

		if !r.set.Contains(commit) {
			st.notFound++
			continue
		}

		if prior, dup := st.matches[commit]; dup {
			// Duplicates should not occur; keep the first record seen.
			r.logger.Warn("commit claimed by two pull requests",
				"commit", commit, "kept", prior.Number, "ignored", record.Number)
			continue
		}
		st.matches[commit] = record
		matched++
	}

	r.logger.Debug("scanned page",
		"page", page, "records", len(records), "matched", matched, "not_found", st.notFound)
}
