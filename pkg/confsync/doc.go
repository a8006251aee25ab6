// Package confsync compares a source tree of configuration files against
// their deployed copies and brings the two back in line.
//
// Each file pair is a SourceConfig. Both sides are parsed into section
// stores, and the pair is classified once at construction:
//
//	new                          destination does not exist
//	new-source-sections          named section sets differ; the source replaces the destination
//	destination-is-old-version   destination matches a committed revision; safe to overwrite
//	destination-has-changed      destination was edited in place; it is pushed back to the source
//	up-to-date                   nothing to do
//
// Merging keeps the destination's section order and unmanaged lines, and
// takes every managed section's content from the source.
package confsync
