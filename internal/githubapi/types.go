package githubapi

// PullRequest is a closed pull-request record as returned by the provider.
// Records are immutable once fetched.
type PullRequest struct {
	// Number is the unique pull-request number.
	Number int
	// Title is the human title.
	Title string
	// Author is the author's login handle.
	Author string
	// MergeCommit is the merge-commit identifier, when one exists.
	MergeCommit string
	// HeadCommit is the head-commit identifier, the fallback for squash or
	// rebase merges that produce no merge commit.
	HeadCommit string
	// Body is the free-text description.
	Body string
	// SourceBranch is the branch the pull request was opened from.
	SourceBranch string
	// URL is the canonical web URL.
	URL string
}

// LandingCommit returns the commit identifier this pull request landed as:
// the merge commit when present, otherwise the head commit. ok is false
// when the record has neither, making it unmatchable.
func (p PullRequest) LandingCommit() (string, bool) {
	if p.MergeCommit != "" {
		return p.MergeCommit, true
	}
	if p.HeadCommit != "" {
		return p.HeadCommit, true
	}
	return "", false
}

// pullRequestJSON mirrors the fields of the provider's list response that
// relnote consumes.
type pullRequestJSON struct {
	Number         int    `json:"number"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	HTMLURL        string `json:"html_url"`
	MergeCommitSHA string `json:"merge_commit_sha"`
	User           struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		SHA string `json:"sha"`
		Ref string `json:"ref"`
	} `json:"head"`
}

// record converts the wire shape into the immutable record type.
func (j pullRequestJSON) record() PullRequest {
	return PullRequest{
		Number:       j.Number,
		Title:        j.Title,
		Author:       j.User.Login,
		MergeCommit:  j.MergeCommitSHA,
		HeadCommit:   j.Head.SHA,
		Body:         j.Body,
		SourceBranch: j.Head.Ref,
		URL:          j.HTMLURL,
	}
}
