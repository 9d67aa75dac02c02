package gitrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/testutil"
)

func TestFromExplicitParsesVerbatim(t *testing.T) {
	tests := map[string]struct {
		expr      string
		wantStart string
		wantEnd   string
	}{
		"two-dot":        {"v1.0.0..HEAD", "v1.0.0", "HEAD"},
		"hashes":         {"abc123..def456", "abc123", "def456"},
		"single rev":     {"HEAD", "", "HEAD"},
		"branch to tag":  {"main..v2.0.0", "main", "v2.0.0"},
		"empty start ok": {"..HEAD", "", "HEAD"},
	}

	// A resolver over a repository with no tags and no commits: explicit
	// ranges must never consult it.
	resolver := NewResolver(testutil.NewRepoFixture(t).Repo)

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ranges := resolver.FromExplicit([]string{tc.expr})
			require.Len(t, ranges, 1)
			assert.Equal(t, tc.expr, ranges[0].Expr)
			assert.Equal(t, tc.wantStart, ranges[0].Start)
			assert.Equal(t, tc.wantEnd, ranges[0].End)
		})
	}
}

func TestFromBranchUsesLatestReachableTag(t *testing.T) {
	fix := testutil.NewRepoFixture(t)
	c1 := fix.Commit("c1")
	c2 := fix.Commit("c2")
	fix.Commit("c3")
	fix.Tag("v0.1.0", c1)
	fix.Tag("v0.2.0", c2)

	resolver := NewResolver(fix.Repo)
	rng, err := resolver.FromBranch("master")
	require.NoError(t, err)

	// v0.2.0 is the most recent tag reachable from the branch head.
	assert.Equal(t, "v0.2.0..master", rng.Expr)
	assert.Equal(t, "v0.2.0", rng.Start)
	assert.Equal(t, "master", rng.End)
}

func TestFromBranchPeelsLightweightTags(t *testing.T) {
	fix := testutil.NewRepoFixture(t)
	c1 := fix.Commit("c1")
	fix.Commit("c2")
	fix.LightweightTag("v0.1.0", c1)

	resolver := NewResolver(fix.Repo)
	rng, err := resolver.FromBranch("master")
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0", rng.Start)
}

func TestFromBranchNoTag(t *testing.T) {
	fix := testutil.NewRepoFixture(t)
	fix.Commit("c1")

	resolver := NewResolver(fix.Repo)
	_, err := resolver.FromBranch("master")

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Resolution))
	assert.Contains(t, err.Error(), "no tag reachable")
}

func TestFromBranchUnknownBranch(t *testing.T) {
	fix := testutil.NewRepoFixture(t)
	fix.Commit("c1")

	resolver := NewResolver(fix.Repo)
	_, err := resolver.FromBranch("does-not-exist")

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Resolution))
}

func TestFromBranchTagOnHead(t *testing.T) {
	fix := testutil.NewRepoFixture(t)
	fix.Commit("c1")
	c2 := fix.Commit("c2")
	fix.Tag("v1.0.0", c2)

	resolver := NewResolver(fix.Repo)
	rng, err := resolver.FromBranch("master")
	require.NoError(t, err)

	// The tag sits on the head itself: the range resolves but is empty,
	// which BuildIndex reports as a traversal error.
	assert.Equal(t, "v1.0.0", rng.Start)
	_, err = BuildIndex(fix.Repo, []Range{rng})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Traversal))
}
