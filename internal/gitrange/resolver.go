// Package gitrange resolves commit ranges and materializes them into an
// index for membership tests and ordered output. Range semantics follow
// git's own ancestry-based traversal: a two-dot range "A..B" covers the
// commits reachable from B that are not reachable from A.
package gitrange

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/relnote/internal/errors"
)

// Range is a single commit-range expression. Start and End are revision
// strings in git's own syntax; they stay unresolved until the index is
// built so explicit ranges never trigger tag or HEAD lookups.
type Range struct {
	// Expr is the original expression, kept for diagnostics.
	Expr string
	// Start is the excluded endpoint. Empty means unbounded (all history
	// reachable from End).
	Start string
	// End is the included endpoint.
	End string
}

// Resolver turns user input (explicit expressions or a branch name) into
// ranges. Only read-only repository queries are performed.
type Resolver struct {
	repo *git.Repository
}

// NewResolver creates a Resolver for the given repository.
func NewResolver(repo *git.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// FromExplicit parses explicit range expressions verbatim. No repository
// queries happen here: tags and branch heads are never consulted when the
// caller supplies ranges directly.
func (r *Resolver) FromExplicit(exprs []string) []Range {
	ranges := make([]Range, 0, len(exprs))
	for _, expr := range exprs {
		ranges = append(ranges, parseExpr(expr))
	}
	return ranges
}

// FromBranch resolves the branch's most recent reachable tag and pairs it
// with the branch head, producing a single "tag..branch" range.
func (r *Resolver) FromBranch(branch string) (Range, error) {
	head, err := r.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return Range{}, errors.BranchNotFound(branch)
	}

	tag, err := r.latestReachableTag(*head)
	if err != nil {
		return Range{}, err
	}
	if tag == "" {
		return Range{}, errors.NoTagOnBranch(branch)
	}

	return Range{
		Expr:  tag + ".." + branch,
		Start: tag,
		End:   branch,
	}, nil
}

// parseExpr splits a range expression on the two-dot separator. An
// expression without ".." selects all history reachable from it.
func parseExpr(expr string) Range {
	if start, end, ok := strings.Cut(expr, ".."); ok {
		return Range{Expr: expr, Start: start, End: end}
	}
	return Range{Expr: expr, End: expr}
}

// latestReachableTag walks history from head in committer-time order and
// returns the name of the first tagged commit it encounters. Annotated
// tags are peeled to their target commit.
func (r *Resolver) latestReachableTag(head plumbing.Hash) (string, error) {
	tagged, err := r.taggedCommits()
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", nil
	}

	commit, err := r.repo.CommitObject(head)
	if err != nil {
		return "", errors.Wrap(err, errors.Resolution, "loading branch head commit")
	}

	var found string
	iter := object.NewCommitIterCTime(commit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if name, ok := tagged[c.Hash]; ok {
			found = name
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, errors.Resolution, "walking branch history")
	}
	return found, nil
}

// taggedCommits maps commit hashes to tag names for every tag in the
// repository. When several tags point at one commit the later-iterated
// name wins; which one is reported does not affect range contents.
func (r *Resolver) taggedCommits() (map[plumbing.Hash]string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, errors.Resolution, "listing tags")
	}

	tagged := make(map[plumbing.Hash]string)
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tagObj, tagErr := r.repo.TagObject(ref.Hash()); tagErr == nil {
			target = tagObj.Target
		} else if tagErr != plumbing.ErrObjectNotFound {
			return fmt.Errorf("peeling tag %s: %w", ref.Name().Short(), tagErr)
		}
		tagged[target] = ref.Name().Short()
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Resolution, "iterating tags")
	}
	return tagged, nil
}
