package paths_test

import (
	"testing"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Destination(t *testing.T) {
	m := paths.NewMapper("/home/alice", "")

	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"home dotfile", "__home__/__.vimrc", "/home/alice/.vimrc"},
		{"home dot directory", "__home__/__.config/git/config", "/home/alice/.config/git/config"},
		{"home plain file", "__home__/bin/tool", "/home/alice/bin/tool"},
		{"system file", "etc/hosts", "/etc/hosts"},
		{"system dot segment", "etc/skel/__.bashrc", "/etc/skel/.bashrc"},
		{"double underscore without dot kept", "etc/__init__", "/etc/__init__"},
		{"unclean path", "etc/./ssh//sshd_config", "/etc/ssh/sshd_config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Destination(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapper_DestinationRoot(t *testing.T) {
	m := paths.NewMapper("/home/alice", "/srv/target")
	got, err := m.Destination("etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "/srv/target/etc/hosts", got)
}

func TestMapper_DestinationErrors(t *testing.T) {
	m := paths.NewMapper("/home/alice", "/")
	for _, rel := range []string{"", ".", "/etc/hosts", "../escape", "__home__"} {
		t.Run(rel, func(t *testing.T) {
			_, err := m.Destination(rel)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPathMapping))
		})
	}
}

func TestMapper_Relative(t *testing.T) {
	m := paths.NewMapper("/home/alice", "/")

	tests := []struct {
		dest string
		want string
	}{
		{"/home/alice/.vimrc", "__home__/__.vimrc"},
		{"/home/alice/.config/git/config", "__home__/__.config/git/config"},
		{"/etc/hosts", "etc/hosts"},
		{"/home/bob/.profile", "home/bob/__.profile"},
	}
	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got, err := m.Relative(tt.dest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := m.Destination(got)
			require.NoError(t, err)
			assert.Equal(t, tt.dest, back)
		})
	}
}

func TestMapper_RelativeOutsideRoot(t *testing.T) {
	m := paths.NewMapper("/home/alice", "/srv/target")
	_, err := m.Relative("/etc/hosts")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathMapping))
}
