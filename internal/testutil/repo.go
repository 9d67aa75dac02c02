// Package testutil provides test fixtures shared across packages, chiefly
// scratch git repositories built with go-git so range-resolution tests run
// against real commit graphs without shelling out.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// RepoFixture is a throwaway git repository with deterministic commit times.
// Each commit advances the clock by one minute so committer-time ordering
// is stable across runs.
type RepoFixture struct {
	T    *testing.T
	Repo *git.Repository
	Dir  string

	clock time.Time
	seq   int
}

// NewRepoFixture initializes an empty repository in a temp directory.
func NewRepoFixture(t *testing.T) *RepoFixture {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	return &RepoFixture{
		T:     t,
		Repo:  repo,
		Dir:   dir,
		clock: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
	}
}

// Commit writes a uniquely named file, stages it, and commits with the
// given message. Returns the commit hash.
func (f *RepoFixture) Commit(message string) plumbing.Hash {
	f.T.Helper()

	f.seq++
	name := fmt.Sprintf("file-%03d.txt", f.seq)
	require.NoError(f.T, os.WriteFile(filepath.Join(f.Dir, name), []byte(message+"\n"), 0o644))

	worktree, err := f.Repo.Worktree()
	require.NoError(f.T, err)

	_, err = worktree.Add(name)
	require.NoError(f.T, err)

	sig := f.signature()
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(f.T, err)

	return hash
}

// Tag creates an annotated tag pointing at the given commit.
func (f *RepoFixture) Tag(name string, target plumbing.Hash) {
	f.T.Helper()
	_, err := f.Repo.CreateTag(name, target, &git.CreateTagOptions{
		Tagger:  f.signature(),
		Message: name,
	})
	require.NoError(f.T, err)
}

// LightweightTag creates a lightweight tag pointing at the given commit.
func (f *RepoFixture) LightweightTag(name string, target plumbing.Hash) {
	f.T.Helper()
	_, err := f.Repo.CreateTag(name, target, nil)
	require.NoError(f.T, err)
}

// AddRemote registers a remote with the given URL.
func (f *RepoFixture) AddRemote(name, url string) {
	f.T.Helper()
	_, err := f.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(f.T, err)
}

// signature returns a tagger/author signature and advances the clock.
func (f *RepoFixture) signature() *object.Signature {
	f.clock = f.clock.Add(time.Minute)
	return &object.Signature{
		Name:  "Test Author",
		Email: "test@example.com",
		When:  f.clock,
	}
}
