// Package format renders matched pull requests in the range's
// oldest-to-newest landing order. It selects and orders; field-level
// presentation (markdown escaping, coloring) is left to downstream tools.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ariel-frischer/relnote/internal/errors"
	"github.com/ariel-frischer/relnote/internal/reconcile"
)

// Recognized output modes.
const (
	ModeList       = "list"
	ModeStructured = "structured"
)

// Entry is the structured output shape for one matched pull request.
type Entry struct {
	Commit       string `json:"commit"`
	Number       int    `json:"number"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	SourceBranch string `json:"source_branch,omitempty"`
	URL          string `json:"url,omitempty"`
	Body         string `json:"body,omitempty"`
}

// Render writes the matched records to w, iterating commits oldest-first
// and emitting only the matched ones. The output order is therefore the
// range order, never the fetch order. Unrecognized modes are a
// configuration error.
func Render(w io.Writer, mode string, order []string, matches reconcile.Matches) error {
	switch mode {
	case ModeList:
		return renderList(w, order, matches)
	case ModeStructured:
		return renderStructured(w, order, matches)
	default:
		return errors.UnknownFormat(mode)
	}
}

// renderList emits one "- <title> #<number> <author>" line per match.
func renderList(w io.Writer, order []string, matches reconcile.Matches) error {
	for _, commit := range order {
		record, ok := matches[commit]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "- %s #%d %s\n", record.Title, record.Number, record.Author); err != nil {
			return err
		}
	}
	return nil
}

// renderStructured emits one self-describing JSON object per match, one
// per line, in the same filtered order as the list mode.
func renderStructured(w io.Writer, order []string, matches reconcile.Matches) error {
	enc := json.NewEncoder(w)
	for _, commit := range order {
		record, ok := matches[commit]
		if !ok {
			continue
		}
		entry := Entry{
			Commit:       commit,
			Number:       record.Number,
			Title:        record.Title,
			Author:       record.Author,
			SourceBranch: record.SourceBranch,
			URL:          record.URL,
			Body:         record.Body,
		}
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return nil
}
