// Package gitrepo provides access to the local git repository for relnote:
// repository discovery, current-branch detection, origin-slug derivation,
// and annotated release-tag creation. All operations go through go-git;
// nothing shells out to the git CLI.
package gitrepo

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Open opens the git repository at path, or the current working directory
// when path is empty. DetectDotGit walks up the directory tree so the tool
// works from any subdirectory of the checkout.
func Open(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CurrentBranch returns the name of the checked-out branch.
// Returns empty string in detached HEAD state.
func CurrentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// sshRemotePattern matches SCP-style remote URLs like git@github.com:owner/name.git.
var sshRemotePattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+:(.+)$`)

// OriginSlug derives the "owner/name" slug from the origin remote URL.
// Both HTTPS and SSH remote forms are handled.
func OriginSlug(repo *git.Repository) (string, error) {
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("looking up origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	slug, err := SlugFromRemoteURL(urls[0])
	if err != nil {
		return "", fmt.Errorf("parsing origin remote %q: %w", urls[0], err)
	}
	return slug, nil
}

// SlugFromRemoteURL extracts owner/name from a git remote URL.
func SlugFromRemoteURL(url string) (string, error) {
	var path string
	switch {
	case strings.Contains(url, "://"):
		// https://github.com/owner/name.git, ssh://git@github.com/owner/name
		parts := strings.SplitN(url, "://", 2)
		segments := strings.Split(strings.Trim(parts[1], "/"), "/")
		if len(segments) < 3 {
			return "", fmt.Errorf("no owner/name path in URL")
		}
		path = strings.Join(segments[1:3], "/")
	default:
		m := sshRemotePattern.FindStringSubmatch(url)
		if m == nil {
			return "", fmt.Errorf("unrecognized remote URL format")
		}
		path = strings.Trim(m[1], "/")
	}

	path = strings.TrimSuffix(path, ".git")
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", fmt.Errorf("no owner/name path in URL")
	}
	return segments[0] + "/" + segments[1], nil
}

// TagOptions controls annotated tag creation.
type TagOptions struct {
	// Name is the tag name, e.g. "v1.4.0".
	Name string
	// Message is the annotation message. Empty defaults to the tag name.
	Message string
	// Target is a revision to tag. Empty means HEAD.
	Target string
}

// CreateAnnotatedTag creates an annotated (unsigned) tag. The tagger
// signature comes from the repository's user configuration, falling back
// to GIT_AUTHOR_NAME/GIT_AUTHOR_EMAIL.
func CreateAnnotatedTag(repo *git.Repository, opts TagOptions) error {
	if opts.Name == "" {
		return fmt.Errorf("tag name is required")
	}

	var hash plumbing.Hash
	if opts.Target == "" {
		head, err := repo.Head()
		if err != nil {
			return fmt.Errorf("getting HEAD: %w", err)
		}
		hash = head.Hash()
	} else {
		resolved, err := repo.ResolveRevision(plumbing.Revision(opts.Target))
		if err != nil {
			return fmt.Errorf("resolving %q: %w", opts.Target, err)
		}
		hash = *resolved
	}

	message := opts.Message
	if message == "" {
		message = opts.Name
	}

	tagger, err := taggerSignature(repo)
	if err != nil {
		return err
	}

	_, err = repo.CreateTag(opts.Name, hash, &git.CreateTagOptions{
		Tagger:  tagger,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating tag %q: %w", opts.Name, err)
	}
	return nil
}

// taggerSignature builds the tagger identity from git config or environment.
func taggerSignature(repo *git.Repository) (*object.Signature, error) {
	name := os.Getenv("GIT_AUTHOR_NAME")
	email := os.Getenv("GIT_AUTHOR_EMAIL")

	cfg, err := repo.ConfigScoped(gitconfig.SystemScope)
	if err == nil {
		if name == "" {
			name = cfg.User.Name
		}
		if email == "" {
			email = cfg.User.Email
		}
	}

	if name == "" || email == "" {
		return nil, fmt.Errorf("tagger identity not configured; set user.name and user.email in git config")
	}

	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}
