package paths

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/quinox/confsync/pkg/errors"
)

// Source tree naming conventions
const (
	// HomeDirName is the top-level source folder deployed to the home directory
	HomeDirName = "__home__"

	// DotPrefix marks a segment deployed with a leading dot
	DotPrefix = "__."
)

// Mapper translates between source-relative paths and destination paths
type Mapper struct {
	// Home is where HomeDirName is deployed
	Home string
	// Root is where every other top-level entry is deployed
	Root string
}

// NewMapper creates a mapper. An empty root means "/".
func NewMapper(home, root string) Mapper {
	if root == "" {
		root = string(filepath.Separator)
	}
	return Mapper{Home: filepath.Clean(expandHome(home)), Root: filepath.Clean(root)}
}

// Destination maps a path relative to the source root onto the filesystem
func (m Mapper) Destination(rel string) (string, error) {
	segments, err := splitRelative(rel)
	if err != nil {
		return "", err
	}

	base := m.Root
	if segments[0] == HomeDirName {
		if len(segments) == 1 {
			return "", errors.New(errors.ErrPathMapping, "home folder itself is not a file").
				WithDetail("path", rel)
		}
		base = m.Home
		segments = segments[1:]
	}

	for i, seg := range segments {
		if strings.HasPrefix(seg, DotPrefix) {
			segments[i] = "." + strings.TrimPrefix(seg, DotPrefix)
		}
	}
	return filepath.Join(append([]string{base}, segments...)...), nil
}

// Relative maps a destination path back to its source-relative path.
// Destinations under Home win over Root, since Home usually lies below it.
func (m Mapper) Relative(dest string) (string, error) {
	dest = filepath.Clean(dest)

	var prefix []string
	base := ""
	switch {
	case dest != m.Home && within(m.Home, dest):
		base = m.Home
		prefix = []string{HomeDirName}
	case within(m.Root, dest):
		base = m.Root
	default:
		return "", errors.New(errors.ErrPathMapping, "destination is outside of the mapped roots").
			WithDetail("path", dest)
	}

	rel, err := filepath.Rel(base, dest)
	if err != nil || rel == "." {
		return "", errors.New(errors.ErrPathMapping, "destination does not name a file").
			WithDetail("path", dest)
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ".") {
			segments[i] = DotPrefix + strings.TrimPrefix(seg, ".")
		}
	}
	return path.Join(append(prefix, segments...)...), nil
}

func splitRelative(rel string) ([]string, error) {
	clean := path.Clean(filepath.ToSlash(rel))
	if rel == "" || clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return nil, errors.New(errors.ErrPathMapping, "source path must be relative to the source root").
			WithDetail("path", rel)
	}
	return strings.Split(clean, "/"), nil
}
