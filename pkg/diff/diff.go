// Package diff renders line-oriented unified diffs.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/quinox/confsync/pkg/errors"
)

// DefaultContext is the number of unchanged lines shown around each change
const DefaultContext = 3

// Options control diff rendering
type Options struct {
	FromLabel string
	ToLabel   string
	Context   int
}

// Unified returns the unified diff turning from into to, one output line per
// element without trailing newlines. Identical inputs produce no lines at all.
func Unified(from, to []string, opts Options) ([]string, error) {
	if opts.Context < 0 {
		opts.Context = DefaultContext
	}

	ud := difflib.UnifiedDiff{
		A:        terminate(from),
		B:        terminate(to),
		FromFile: opts.FromLabel,
		ToFile:   opts.ToLabel,
		Context:  opts.Context,
		Eol:      "\n",
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render diff")
	}
	if text == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), nil
}

// terminate gives every line the newline difflib expects
func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

// Stats counts added and removed lines in a unified diff
func Stats(lines []string) (added, removed int) {
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
		case strings.HasPrefix(l, "+"):
			added++
		case strings.HasPrefix(l, "-"):
			removed++
		}
	}
	return added, removed
}
