package vcs

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Backend is the read-only view of version control history
type Backend interface {
	// HashObject returns the object id the store would give data
	HashObject(data []byte) string

	// Revisions lists every revision reachable from any ref
	Revisions(ctx context.Context) ([]string, error)

	// Blobs lists the blob ids in the full tree of rev
	Blobs(ctx context.Context, rev string) ([]string, error)

	// IsModified reports whether path differs from what history records,
	// untracked files included
	IsModified(ctx context.Context, path string) (bool, error)
}

// ObjectLister lists every object id reachable from any ref
type ObjectLister interface {
	Objects(ctx context.Context) ([]string, error)
}

// BlobHash computes the git blob id of data
func BlobHash(data []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(data)) + "\x00"))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
