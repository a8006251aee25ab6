package sections

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/logging"
	"github.com/rs/zerolog"
)

// Marker vocabulary
const (
	// Tag follows the comment token on every marker line
	Tag = "conf-sync"

	// HeaderSection is the reserved name of the line-0 managed header
	HeaderSection = "header"

	OptionBeginSection = "begin-section"
	OptionEndSection   = "end-section"
	OptionManaged      = "managed"

	unknownPrefix = "unknown-"
)

var headerPattern = regexp.MustCompile(`^(\S+) ` + Tag + ` ` + OptionManaged + `(\s|$)`)

// DetectCommentChar returns the comment token declared by a managed header
// line, or "" when the line is not one.
func DetectCommentChar(firstLine string) string {
	m := headerPattern.FindStringSubmatch(firstLine)
	if m == nil {
		return ""
	}
	return m[1]
}

// UnknownName returns the synthetic name of the n-th unmanaged section
func UnknownName(n int) string {
	return unknownPrefix + strconv.Itoa(n)
}

type state int

const (
	stateNone state = iota
	stateNamed
	stateUnknown
)

func (s state) String() string {
	switch s {
	case stateNone:
		return "no-active-section"
	case stateNamed:
		return "in-named-section"
	case stateUnknown:
		return "in-unknown-section"
	default:
		return "invalid"
	}
}

// Parser turns lines into a Store
type Parser struct {
	logger zerolog.Logger
}

// NewParser creates a parser. A nil logger selects the "sections" component logger.
func NewParser(logger *zerolog.Logger) *Parser {
	return &Parser{logger: logging.Component(logger, "sections")}
}

// Parse parses lines with a default parser
func Parse(lines []string) (*Store, error) {
	return NewParser(nil).Parse(lines)
}

// Parse runs the section state machine over lines. Lines must already have
// their trailing newline removed; they are stored unaltered.
func (p *Parser) Parse(lines []string) (*Store, error) {
	run := &parseRun{
		logger: p.logger,
		store:  NewStore(),
		seen:   make(map[string]int),
	}
	if len(lines) > 0 {
		run.store.commentChar = DetectCommentChar(lines[0])
	}

	for i, line := range lines {
		if err := run.step(i, line); err != nil {
			return nil, err
		}
	}

	return run.store, nil
}

// parseRun holds the mutable state of one Parse call
type parseRun struct {
	logger   zerolog.Logger
	store    *Store
	state    state
	current  *Section
	unknowns int
	seen     map[string]int
}

func (r *parseRun) step(lineNo int, line string) error {
	if options, ok := r.markerOptions(line); ok {
		for _, option := range options {
			if err := r.apply(lineNo, option); err != nil {
				return err
			}
		}
	}

	if r.state == stateNone {
		r.openUnknown()
	}

	r.current.Lines = append(r.current.Lines, line)

	// The header holds only its own marker line
	if r.current.Kind == KindHeader {
		r.close()
	}
	return nil
}

// markerOptions returns the options of a marker line. Markers are only
// recognized once line 0 established a comment token.
func (r *parseRun) markerOptions(line string) ([]string, bool) {
	comment := r.store.commentChar
	if comment == "" {
		return nil, false
	}

	rest := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(rest, comment) {
		return nil, false
	}
	rest = strings.TrimLeft(rest[len(comment):], " \t")
	if !strings.HasPrefix(rest, Tag+" ") {
		return nil, false
	}
	return strings.Fields(rest[len(Tag)+1:]), true
}

func (r *parseRun) apply(lineNo int, option string) error {
	key, value, _ := strings.Cut(option, "=")

	switch key {
	case OptionBeginSection:
		if value == "" {
			return errors.Newf(errors.ErrSectionParse, "line %d: %s requires a name", lineNo+1, OptionBeginSection).
				WithDetail("line", lineNo+1)
		}
		r.openNamed(r.uniqueName(value), KindNamed)

	case OptionEndSection:
		// Inside an unmanaged run the marker is ordinary content
		if r.state == stateNamed {
			r.close()
		}

	case OptionManaged:
		if lineNo != 0 {
			r.logger.Warn().
				Int("line", lineNo+1).
				Msg("Ignoring managed marker outside of the first line")
			return nil
		}
		r.openNamed(r.uniqueName(HeaderSection), KindHeader)

	default:
		return errors.Newf(errors.ErrUnknownOption, "line %d: unknown %s option %q", lineNo+1, Tag, key).
			WithDetail("line", lineNo+1).
			WithDetail("option", key)
	}
	return nil
}

// uniqueName applies the collision rule: the first use keeps the bare name,
// later uses get -2, -3, ...
func (r *parseRun) uniqueName(name string) string {
	r.seen[name]++
	if r.seen[name] == 1 && !r.store.Has(name) {
		return name
	}

	n := r.seen[name]
	if n < 2 {
		n = 2
	}
	candidate := fmt.Sprintf("%s-%d", name, n)
	for r.store.Has(candidate) {
		n++
		candidate = fmt.Sprintf("%s-%d", name, n)
	}
	r.seen[name] = n

	r.logger.Debug().
		Str("name", name).
		Str("renamed", candidate).
		Msg("Section name already used, renaming")
	return candidate
}

func (r *parseRun) openNamed(name string, kind Kind) {
	r.current = r.store.add(name, kind)
	r.state = stateNamed
}

func (r *parseRun) openUnknown() {
	name := UnknownName(r.unknowns)
	r.unknowns++
	for r.store.Has(name) {
		name = UnknownName(r.unknowns)
		r.unknowns++
	}
	r.current = r.store.add(name, KindUnmanaged)
	r.state = stateUnknown
}

func (r *parseRun) close() {
	r.current = nil
	r.state = stateNone
}
