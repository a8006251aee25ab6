package confsync_test

import (
	"context"
	"testing"

	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/paths"
	"github.com/quinox/confsync/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceTree(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	testutil.WriteTree(t, fsys, "/", testutil.FileTree{
		"src": testutil.FileTree{
			"__home__": testutil.FileTree{"__.vimrc": "set number\n"},
			"etc": testutil.FileTree{
				"hosts":     "127.0.0.1 localhost\n",
				"hosts.swp": "junk\n",
				".hidden":   testutil.FileTree{"skip": "x\n"},
			},
			".git":            testutil.FileTree{"config": "[core]\n"},
			".conf-sync.toml": "[diff]\n",
		},
		"home": testutil.FileTree{
			"alice": testutil.FileTree{".vimrc": "set number\n"},
		},
	})
	return fsys
}

func loadOptions(fsys afero.Fs) confsync.LoadOptions {
	return confsync.LoadOptions{
		Options:    confsync.Options{Fs: fsys},
		SourceRoot: "/src",
		Mapper:     paths.NewMapper("/home/alice", "/"),
		Ignore:     confsync.DefaultIgnore,
	}
}

func TestLoad(t *testing.T) {
	fsys := sourceTree(t)

	configs, err := confsync.Load(context.Background(), loadOptions(fsys))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "/src/__home__/__.vimrc", configs[0].SourcePath())
	assert.Equal(t, "/home/alice/.vimrc", configs[0].DestinationPath())
	assert.Equal(t, confsync.StatusUpToDate, configs[0].Status())

	assert.Equal(t, "/src/etc/hosts", configs[1].SourcePath())
	assert.Equal(t, "/etc/hosts", configs[1].DestinationPath())
	assert.Equal(t, confsync.StatusNew, configs[1].Status())
}

func TestLoad_SkipsRepositoryFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	testutil.WriteTree(t, fsys, "/src", testutil.FileTree{
		".gitignore":     "*.swp\n",
		".gitattributes": "* text=auto\n",
		"README.md":      "# dotfiles\n",
		"LICENSE":        "MIT\n",
		"__home__":       testutil.FileTree{"__.vimrc": "set number\n"},
		"etc": testutil.FileTree{
			"README": "kept below the root\n",
			".keep":  "",
		},
	})

	configs, err := confsync.Load(context.Background(), loadOptions(fsys))
	require.NoError(t, err)

	var got []string
	for _, c := range configs {
		got = append(got, c.SourcePath()+" -> "+c.DestinationPath())
	}
	assert.Equal(t, []string{
		"/src/__home__/__.vimrc -> /home/alice/.vimrc",
		"/src/etc/README -> /etc/README",
	}, got)
}

func TestLoad_CollectsParseErrors(t *testing.T) {
	fsys := sourceTree(t)
	writeFile(t, fsys, "/src/etc/broken.conf", text("# conf-sync managed", "# conf-sync bogus"))

	configs, err := confsync.Load(context.Background(), loadOptions(fsys))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownOption))
	assert.Len(t, configs, 2, "healthy files still load")
}

func TestLoad_Filter(t *testing.T) {
	fsys := sourceTree(t)

	tests := []struct {
		name   string
		filter []string
		want   []string
	}{
		{"by destination", []string{"/etc/hosts"}, []string{"/src/etc/hosts"}},
		{"by source path", []string{"/src/__home__"}, []string{"/src/__home__/__.vimrc"}},
		{"by relative path", []string{"etc"}, []string{"/src/etc/hosts"}},
		{"no match", []string{"/nowhere"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := loadOptions(fsys)
			opts.Filter = tt.filter

			configs, err := confsync.Load(context.Background(), opts)
			require.NoError(t, err)

			var got []string
			for _, c := range configs {
				got = append(got, c.SourcePath())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingRoot(t *testing.T) {
	opts := loadOptions(afero.NewMemMapFs())
	_, err := confsync.Load(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
