package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/githubapi"
	"github.com/ariel-frischer/relnote/internal/reconcile"
)

func sampleMatches() reconcile.Matches {
	return reconcile.Matches{
		"c1": githubapi.PullRequest{
			Number: 10, Title: "Fix flaky watcher", Author: "octocat",
			SourceBranch: "fix/watcher", URL: "https://example.com/pull/10",
		},
		"c3": githubapi.PullRequest{
			Number: 30, Title: "Add pagination", Author: "hubot",
			URL: "https://example.com/pull/30", Body: "Adds page handling.",
		},
	}
}

func TestRenderListFollowsRangeOrder(t *testing.T) {
	var buf bytes.Buffer
	// c2 has no match and must be skipped; c3 matched but comes after c1
	// regardless of how the records were fetched.
	err := Render(&buf, ModeList, []string{"c1", "c2", "c3"}, sampleMatches())
	require.NoError(t, err)

	want := "- Fix flaky watcher #10 octocat\n- Add pagination #30 hubot\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderStructuredOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, ModeStructured, []string{"c1", "c2", "c3"}, sampleMatches())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "c1", first.Commit)
	assert.Equal(t, 10, first.Number)
	assert.Equal(t, "octocat", first.Author)
	assert.Equal(t, "fix/watcher", first.SourceBranch)

	var second Entry
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "c3", second.Commit)
	assert.Equal(t, "Adds page handling.", second.Body)
}

func TestRenderNoMatchesIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, ModeList, []string{"c1", "c2"}, reconcile.Matches{})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestRenderUnknownMode(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "markdown", []string{"c1"}, sampleMatches())

	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.Config))
	assert.Contains(t, err.Error(), "markdown")
	assert.Empty(t, buf.String())
}
