package gitrange

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/relnote/internal/errors"
)

// Index materializes the commits of one or more ranges: a set for O(1)
// membership tests and the same identifiers oldest-to-newest for output
// ordering. Both views come from a single traversal and never diverge.
// The index is read-only after construction.
type Index struct {
	order []string
	set   map[string]struct{}
}

// BuildIndex enumerates every range and merges the results. Ranges are
// processed in argument order with first-occurrence dedup, so a commit
// covered by two ranges keeps its earliest position. An empty result is
// a TraversalError: legitimate when nothing landed since the last tag,
// but the caller decides that.
func BuildIndex(repo *git.Repository, ranges []Range) (*Index, error) {
	idx := &Index{set: make(map[string]struct{})}

	for _, rng := range ranges {
		ids, err := enumerate(repo, rng)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			if _, ok := idx.set[id]; ok {
				continue
			}
			idx.set[id] = struct{}{}
			idx.order = append(idx.order, id)
		}
	}

	if len(idx.order) == 0 {
		return nil, errors.EmptyRange(joinExprs(ranges))
	}
	return idx, nil
}

// Contains reports whether the commit identifier is inside the range set.
func (i *Index) Contains(id string) bool {
	_, ok := i.set[id]
	return ok
}

// Ordered returns the commit identifiers oldest-to-newest. The caller must
// not modify the returned slice.
func (i *Index) Ordered() []string {
	return i.order
}

// Len returns the number of commits in the index.
func (i *Index) Len() int {
	return len(i.order)
}

// enumerate lists the commits of a single range, oldest first. Traversal is
// ancestry-based: the ancestors of Start are marked as seen, then history is
// walked from End in committer-time order (matching rev-list's default) and
// reversed.
func enumerate(repo *git.Repository, rng Range) ([]string, error) {
	seen := make(map[plumbing.Hash]bool)

	if rng.Start != "" {
		startHash, err := repo.ResolveRevision(plumbing.Revision(rng.Start))
		if err != nil {
			return nil, errors.Wrap(err, errors.Traversal, "resolving range start "+rng.Start)
		}
		startCommit, err := repo.CommitObject(*startHash)
		if err != nil {
			return nil, errors.Wrap(err, errors.Traversal, "loading range start "+rng.Start)
		}
		iter := object.NewCommitPreorderIter(startCommit, nil, nil)
		err = iter.ForEach(func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.Traversal, "walking ancestors of "+rng.Start)
		}
	}

	endHash, err := repo.ResolveRevision(plumbing.Revision(rng.End))
	if err != nil {
		return nil, errors.Wrap(err, errors.Traversal, "resolving range end "+rng.End)
	}
	if seen[*endHash] {
		return nil, nil // end is an ancestor of start: empty range
	}
	endCommit, err := repo.CommitObject(*endHash)
	if err != nil {
		return nil, errors.Wrap(err, errors.Traversal, "loading range end "+rng.End)
	}

	var newestFirst []string
	iter := object.NewCommitIterCTime(endCommit, seen, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		newestFirst = append(newestFirst, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Traversal, "enumerating range "+rng.Expr)
	}

	oldestFirst := make([]string, len(newestFirst))
	for i, id := range newestFirst {
		oldestFirst[len(newestFirst)-1-i] = id
	}
	return oldestFirst, nil
}

// joinExprs renders the range expressions for error messages.
func joinExprs(ranges []Range) string {
	exprs := make([]string, len(ranges))
	for i, rng := range ranges {
		exprs[i] = rng.Expr
	}
	return strings.Join(exprs, " ")
}
