// Package vcs answers the history questions the sync engine asks of the
// version control system holding the source tree.
//
// The engine needs four read-only capabilities (Backend): hashing content
// the way the object store does, listing every revision, listing the blobs
// reachable from a revision, and telling whether a working-tree file has
// uncommitted modifications. Git implements Backend by shelling out to the
// git executable.
//
// On top of Backend, an Oracle decides whether some content was ever
// committed. HistoryWalk lists every revision's tree; ObjectIndex builds a
// single set of every reachable object once and answers from memory. Both
// give the same answer for blob content.
package vcs
