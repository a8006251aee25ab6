package vcs

import (
	"context"
	"fmt"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/rs/zerolog"
)

// Oracle lookup strategies
const (
	StrategyIndex = "index"
	StrategyWalk  = "walk"
)

// Match is the answer to a blob lookup. Revision is empty when the oracle
// does not track which revision holds the blob.
type Match struct {
	Found    bool
	Revision string
}

// Oracle decides whether content with the given object id was ever committed
type Oracle interface {
	Lookup(ctx context.Context, hash string) (Match, error)
}

// HistoryWalk searches every revision's tree in rev-list order
type HistoryWalk struct {
	backend Backend
	logger  zerolog.Logger
}

// NewHistoryWalk creates a walking oracle
func NewHistoryWalk(backend Backend, logger *zerolog.Logger) *HistoryWalk {
	return &HistoryWalk{backend: backend, logger: logging.Component(logger, "vcs.walk")}
}

// Lookup implements Oracle
func (w *HistoryWalk) Lookup(ctx context.Context, hash string) (Match, error) {
	revs, err := w.backend.Revisions(ctx)
	if err != nil {
		return Match{}, err
	}

	for _, rev := range revs {
		blobs, err := w.backend.Blobs(ctx, rev)
		if err != nil {
			return Match{}, err
		}
		for _, blob := range blobs {
			if blob == hash {
				w.logger.Debug().Str("hash", hash).Str("revision", rev).Msg("Blob found in history")
				return Match{Found: true, Revision: rev}, nil
			}
		}
	}

	w.logger.Debug().Str("hash", hash).Int("revisions", len(revs)).Msg("Blob not found in history")
	return Match{}, nil
}

// ObjectIndex answers lookups from a set of every reachable object id,
// built on first use and reused afterwards
type ObjectIndex struct {
	lister  ObjectLister
	logger  zerolog.Logger
	objects map[string]struct{}
}

// NewObjectIndex creates an indexing oracle
func NewObjectIndex(lister ObjectLister, logger *zerolog.Logger) *ObjectIndex {
	return &ObjectIndex{lister: lister, logger: logging.Component(logger, "vcs.index")}
}

// Lookup implements Oracle
func (x *ObjectIndex) Lookup(ctx context.Context, hash string) (Match, error) {
	if x.objects == nil {
		done := logging.Timed(x.logger, "build object index")
		ids, err := x.lister.Objects(ctx)
		if err != nil {
			return Match{}, err
		}
		x.objects = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			x.objects[id] = struct{}{}
		}
		done()
	}

	_, ok := x.objects[hash]
	return Match{Found: ok}, nil
}

// NewOracle builds the oracle for a strategy name over a git backend
func NewOracle(strategy string, git *Git, logger *zerolog.Logger) (Oracle, error) {
	switch strategy {
	case StrategyIndex, "":
		return NewObjectIndex(git, logger), nil
	case StrategyWalk:
		return NewHistoryWalk(git, logger), nil
	default:
		return nil, errors.New(errors.ErrConfigValid, fmt.Sprintf("unknown history strategy %q", strategy)).
			WithDetail("strategy", strategy)
	}
}
