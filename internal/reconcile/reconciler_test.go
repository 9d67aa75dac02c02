package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/githubapi"
)

// fakeSource serves predefined pages and records which pages were requested.
// Pages beyond the defined ones are empty.
type fakeSource struct {
	pages [][]githubapi.PullRequest
	errOn int // page number that fails, 0 = never
	calls []int
}

func (f *fakeSource) FetchPage(ctx context.Context, page int) ([]githubapi.PullRequest, error) {
	f.calls = append(f.calls, page)
	if f.errOn != 0 && page == f.errOn {
		return nil, errors.NewFetchError("provider unavailable")
	}
	if page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

// commitSet is a map-backed CommitSet.
type commitSet map[string]struct{}

func (s commitSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func setOf(ids ...string) commitSet {
	s := make(commitSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func merged(number int, mergeCommit string) githubapi.PullRequest {
	return githubapi.PullRequest{Number: number, Title: "pr", Author: "a", MergeCommit: mergeCommit}
}

func TestRunMatchesRecordsInsideRange(t *testing.T) {
	// Range [c1,c2,c3]; the source returns PRs for c3 and c1, c2 is
	// missing entirely. Matching is independent of fetch order.
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{merged(30, "c3"), merged(10, "c1")},
	}}

	matches, err := New(source, setOf("c1", "c2", "c3"), Options{}).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, 10, matches["c1"].Number)
	assert.Equal(t, 30, matches["c3"].Number)
	_, hasC2 := matches["c2"]
	assert.False(t, hasC2)
}

func TestRunNeverMatchesOutsideRange(t *testing.T) {
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{merged(1, "inside"), merged(2, "outside"), merged(3, "elsewhere")},
	}}

	matches, err := New(source, setOf("inside"), Options{}).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, matches, 1)
	_, ok := matches["inside"]
	assert.True(t, ok)
}

func TestRunStopsAtSkipThreshold(t *testing.T) {
	// max_skips=2 and page 1 carries three misses: the run must stop
	// without requesting page 2.
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{merged(1, "x1"), merged(2, "x2"), merged(3, "x3")},
		{merged(4, "c1")},
	}}

	matches, err := New(source, setOf("c1"), Options{MaxSkips: 2}).Run(t.Context())
	require.NoError(t, err)

	assert.Empty(t, matches)
	assert.Equal(t, []int{1}, source.calls)
}

func TestRunSkipsThresholdAccumulatesAcrossPages(t *testing.T) {
	// Misses accumulate across pages: 2 on page 1 plus 1 on page 2
	// crosses a threshold of 3 even though no single page does.
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{merged(1, "x1"), merged(2, "x2")},
		{merged(3, "c1"), merged(4, "x3")},
		{merged(5, "c2")},
	}}

	matches, err := New(source, setOf("c1", "c2"), Options{MaxSkips: 3}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, source.calls)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches["c1"].Number)
}

func TestRunSkipsRecordsWithoutCommits(t *testing.T) {
	// A record with neither merge nor head commit is unmatchable: skipped,
	// not counted against the threshold, no error.
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{
			{Number: 1, Title: "no commits"},
			{Number: 2, Title: "no commits either"},
			merged(3, "c1"),
		},
	}}

	matches, err := New(source, setOf("c1"), Options{MaxSkips: 1}).Run(t.Context())
	require.NoError(t, err)

	// The threshold of 1 was never reached, so page 2 was still requested.
	assert.Equal(t, []int{1, 2}, source.calls)
	require.Len(t, matches, 1)
	assert.Equal(t, 3, matches["c1"].Number)
}

func TestRunHeadCommitFallback(t *testing.T) {
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{{Number: 9, HeadCommit: "c1"}},
	}}

	matches, err := New(source, setOf("c1"), Options{}).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 9, matches["c1"].Number)
}

func TestRunFirstRecordWinsOnDuplicateCommit(t *testing.T) {
	source := &fakeSource{pages: [][]githubapi.PullRequest{
		{merged(5, "c1"), merged(6, "c1")},
	}}

	matches, err := New(source, setOf("c1"), Options{}).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 5, matches["c1"].Number)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	// The second page fails: no partial result survives.
	source := &fakeSource{
		pages: [][]githubapi.PullRequest{
			{merged(1, "c1")},
			{merged(2, "c2")},
		},
		errOn: 2,
	}

	matches, err := New(source, setOf("c1", "c2"), Options{}).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Fetch))
	assert.Nil(t, matches)
}

func TestRunEmptyListing(t *testing.T) {
	source := &fakeSource{}

	matches, err := New(source, setOf("c1"), Options{}).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, []int{1}, source.calls)
}

func TestRunIdempotent(t *testing.T) {
	pages := [][]githubapi.PullRequest{
		{merged(3, "c3"), merged(9, "x9")},
		{merged(1, "c1")},
	}
	set := setOf("c1", "c2", "c3")

	first, err := New(&fakeSource{pages: pages}, set, Options{}).Run(t.Context())
	require.NoError(t, err)
	second, err := New(&fakeSource{pages: pages}, set, Options{}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunTerminationBound(t *testing.T) {
	// Worst case: no page ever matches. With pages of one record and
	// max_skips=5 the loop must halt after at most 5 pages.
	var pages [][]githubapi.PullRequest
	for i := 0; i < 50; i++ {
		pages = append(pages, []githubapi.PullRequest{merged(i+1, "outside")})
	}
	source := &fakeSource{pages: pages}

	_, err := New(source, setOf("never"), Options{MaxSkips: 5}).Run(t.Context())
	require.NoError(t, err)
	assert.Len(t, source.calls, 5)
}

func TestRunPipelinedSameMatches(t *testing.T) {
	pages := [][]githubapi.PullRequest{
		{merged(3, "c3"), merged(9, "x9")},
		{merged(1, "c1"), merged(8, "x8")},
		{merged(2, "c2")},
	}
	set := setOf("c1", "c2", "c3")

	sequential, err := New(&fakeSource{pages: pages}, set, Options{}).Run(t.Context())
	require.NoError(t, err)
	pipelined, err := New(&fakeSource{pages: pages}, set, Options{Prefetch: true}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, sequential, pipelined)
}

func TestRunPipelinedDiscardsSpeculativeError(t *testing.T) {
	// The threshold terminates the run on page 1; an error from the
	// speculatively fetched page 2 must not fail the run.
	source := &fakeSource{
		pages: [][]githubapi.PullRequest{
			{merged(1, "x1"), merged(2, "x2")},
		},
		errOn: 2,
	}

	matches, err := New(source, setOf("c1"), Options{MaxSkips: 1, Prefetch: true}).Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunPipelinedFetchFailureBeforeTerminationIsFatal(t *testing.T) {
	source := &fakeSource{
		pages: [][]githubapi.PullRequest{
			{merged(1, "c1")},
			{merged(2, "c2")},
			{merged(3, "c3")},
		},
		errOn: 3,
	}

	matches, err := New(source, setOf("c1", "c2", "c3"), Options{Prefetch: true}).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Fetch))
	assert.Nil(t, matches)
}
