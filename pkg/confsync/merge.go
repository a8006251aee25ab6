package confsync

import "github.com/quinox/confsync/pkg/sections"

// Merge builds the destination content from a source and destination store.
//
// When the named section sets or the comment tokens differ the source is
// returned whole. Otherwise
// the destination's section order is walked: unmanaged sections come from the
// destination, managed ones from the source.
func Merge(source, dest *sections.Store) []string {
	if !sections.Compatible(source, dest) {
		return source.Lines()
	}

	var out []string
	for _, sec := range dest.Sections() {
		if sec.Managed() {
			out = append(out, source.LinesOf(sec.Name)...)
			continue
		}
		out = append(out, sec.Lines...)
	}
	return out
}
