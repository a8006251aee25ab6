package sections

import "slices"

// Kind classifies a section
type Kind int

const (
	// KindUnmanaged is a synthetic unknown-N passthrough region
	KindUnmanaged Kind = iota
	// KindHeader is the single-line managed header on line 0
	KindHeader
	// KindNamed is a section opened by begin-section
	KindNamed
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindUnmanaged:
		return "unmanaged"
	case KindHeader:
		return "header"
	case KindNamed:
		return "named"
	default:
		return "unknown"
	}
}

// Section is an ordered group of lines with a name
type Section struct {
	Name  string
	Kind  Kind
	Lines []string
}

// Managed reports whether the section's content is under sync control
func (s *Section) Managed() bool {
	return s.Kind != KindUnmanaged
}

// Store is an ordered mapping from section name to section, in the order
// sections were first encountered in the file.
type Store struct {
	sections    []*Section
	index       map[string]int
	commentChar string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// add appends a new empty section. Callers guarantee name is unused.
func (s *Store) add(name string, kind Kind) *Section {
	sec := &Section{Name: name, Kind: kind}
	s.index[name] = len(s.sections)
	s.sections = append(s.sections, sec)
	return sec
}

// Has reports whether a section with the given name exists
func (s *Store) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Section returns the section with the given name
func (s *Store) Section(name string) (*Section, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.sections[i], true
}

// LinesOf returns the lines of the named section, or nil when absent
func (s *Store) LinesOf(name string) []string {
	if sec, ok := s.Section(name); ok {
		return sec.Lines
	}
	return nil
}

// AllKeys returns every section name, unmanaged ones included, in file order
func (s *Store) AllKeys() []string {
	keys := make([]string, 0, len(s.sections))
	for _, sec := range s.sections {
		keys = append(keys, sec.Name)
	}
	return keys
}

// NamedKeys returns the names of managed sections (header and named) in file order
func (s *Store) NamedKeys() []string {
	keys := make([]string, 0, len(s.sections))
	for _, sec := range s.sections {
		if sec.Managed() {
			keys = append(keys, sec.Name)
		}
	}
	return keys
}

// Sections returns the sections in file order
func (s *Store) Sections() []*Section {
	return slices.Clone(s.sections)
}

// Len returns the number of sections
func (s *Store) Len() int {
	return len(s.sections)
}

// Lines reconstructs the file by concatenating all sections in order
func (s *Store) Lines() []string {
	var lines []string
	for _, sec := range s.sections {
		lines = append(lines, sec.Lines...)
	}
	return lines
}

// CommentChar returns the comment token detected from line 0, or "" when the
// file has no managed header.
func (s *Store) CommentChar() string {
	return s.commentChar
}

// Compatible reports whether sections of a can be merged into b: both
// declare the same comment token and manage the same section names
func Compatible(a, b *Store) bool {
	return a.CommentChar() == b.CommentChar() && SameNamedKeys(a, b)
}

// SameNamedKeys reports whether two stores manage the same set of section
// names. Order is irrelevant.
func SameNamedKeys(a, b *Store) bool {
	ak := a.NamedKeys()
	bk := b.NamedKeys()
	if len(ak) != len(bk) {
		return false
	}
	slices.Sort(ak)
	slices.Sort(bk)
	return slices.Equal(ak, bk)
}
