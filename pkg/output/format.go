package output

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/quinox/confsync/pkg/errors"
)

// Format selects how a Report is rendered
type Format int

const (
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
	FormatYAML
)

// formatNames lists the accepted spellings per format; the first one is
// canonical and is what String returns.
var formatNames = []struct {
	format Format
	names  []string
}{
	{FormatAuto, []string{"auto", ""}},
	{FormatTerminal, []string{"term", "terminal"}},
	{FormatText, []string{"text", "plain"}},
	{FormatJSON, []string{"json"}},
	{FormatYAML, []string{"yaml", "yml"}},
}

func (f Format) String() string {
	for _, entry := range formatNames {
		if entry.format == f {
			return entry.names[0]
		}
	}
	return "unknown"
}

// ParseFormat maps a --format / output.format value to a Format, ignoring case
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	var canonical []string
	for _, entry := range formatNames {
		for _, candidate := range entry.names {
			if candidate == name {
				return entry.format, nil
			}
		}
		canonical = append(canonical, entry.names[0])
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown output format %q", s).
		WithDetail("accepted", canonical)
}

// DetectFormat resolves FormatAuto for w. Only a color-capable terminal gets
// styled output; pipes, files, buffers and NO_COLOR get plain text.
func DetectFormat(w io.Writer) Format {
	file, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if fd := file.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(file).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
