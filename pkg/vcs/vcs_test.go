package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobHash(t *testing.T) {
	// Values from `git hash-object`
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", BlobHash(nil))
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", BlobHash([]byte("hello\n")))
}

// fakeBackend serves a fixed history
type fakeBackend struct {
	revs  []string
	trees map[string][]string
	calls int
}

func (f *fakeBackend) HashObject(data []byte) string { return BlobHash(data) }

func (f *fakeBackend) Revisions(context.Context) ([]string, error) { return f.revs, nil }

func (f *fakeBackend) Blobs(_ context.Context, rev string) ([]string, error) {
	return f.trees[rev], nil
}

func (f *fakeBackend) IsModified(context.Context, string) (bool, error) { return false, nil }

func (f *fakeBackend) Objects(context.Context) ([]string, error) {
	f.calls++
	var all []string
	for _, rev := range f.revs {
		all = append(all, rev)
		all = append(all, f.trees[rev]...)
	}
	return all, nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		revs: []string{"c2", "c1"},
		trees: map[string][]string{
			"c2": {"blob-new", "blob-shared"},
			"c1": {"blob-old", "blob-shared"},
		},
	}
}

func TestHistoryWalk(t *testing.T) {
	walk := NewHistoryWalk(newFakeBackend(), nil)
	ctx := context.Background()

	m, err := walk.Lookup(ctx, "blob-old")
	require.NoError(t, err)
	assert.Equal(t, Match{Found: true, Revision: "c1"}, m)

	m, err = walk.Lookup(ctx, "blob-shared")
	require.NoError(t, err)
	assert.Equal(t, "c2", m.Revision)

	m, err = walk.Lookup(ctx, "blob-never")
	require.NoError(t, err)
	assert.False(t, m.Found)
}

func TestObjectIndex(t *testing.T) {
	backend := newFakeBackend()
	idx := NewObjectIndex(backend, nil)
	ctx := context.Background()

	m, err := idx.Lookup(ctx, "blob-old")
	require.NoError(t, err)
	assert.True(t, m.Found)

	m, err = idx.Lookup(ctx, "blob-never")
	require.NoError(t, err)
	assert.False(t, m.Found)

	assert.Equal(t, 1, backend.calls, "index is built once")
}

func TestNewOracle(t *testing.T) {
	g := NewGit(t.TempDir(), GitOptions{})

	o, err := NewOracle("", g, nil)
	require.NoError(t, err)
	assert.IsType(t, &ObjectIndex{}, o)

	o, err = NewOracle(StrategyWalk, g, nil)
	require.NoError(t, err)
	assert.IsType(t, &HistoryWalk{}, o)

	_, err = NewOracle("bisect", g, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestGit_Integration(t *testing.T) {
	repo := testutil.InitGitRepo(t, "")
	dir := repo.Dir
	ctx := context.Background()

	file := repo.Write("vimrc", "set number\n")
	repo.CommitAll("first")
	repo.Write("vimrc", "set number\nsyntax on\n")
	repo.CommitAll("second")

	g := NewGit(dir, GitOptions{})

	revs, err := g.Revisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 2)

	oldHash := g.HashObject([]byte("set number\n"))
	blobs, err := g.Blobs(ctx, revs[1])
	require.NoError(t, err)
	assert.Contains(t, blobs, oldHash)

	for _, strategy := range []string{StrategyWalk, StrategyIndex} {
		t.Run(strategy, func(t *testing.T) {
			oracle, err := NewOracle(strategy, g, nil)
			require.NoError(t, err)

			m, err := oracle.Lookup(ctx, oldHash)
			require.NoError(t, err)
			assert.True(t, m.Found)

			m, err = oracle.Lookup(ctx, BlobHash([]byte("never committed\n")))
			require.NoError(t, err)
			assert.False(t, m.Found)
		})
	}

	modified, err := g.IsModified(ctx, file)
	require.NoError(t, err)
	assert.False(t, modified)

	repo.Write("vimrc", "edited\n")
	modified, err = g.IsModified(ctx, file)
	require.NoError(t, err)
	assert.True(t, modified)

	untracked := repo.Write("new", "x\n")
	modified, err = g.IsModified(ctx, untracked)
	require.NoError(t, err)
	assert.True(t, modified)

	top, err := g.TopLevel(ctx)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, top)
}

func TestGit_NotARepository(t *testing.T) {
	testutil.RequireGit(t)
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())

	g := NewGit(t.TempDir(), GitOptions{})
	_, err := g.Revisions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHistoryLookup))
}

func TestGit_MissingBinary(t *testing.T) {
	g := NewGit(t.TempDir(), GitOptions{Binary: "git-does-not-exist-anywhere"})
	_, err := g.Objects(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHistoryLookup))
}
