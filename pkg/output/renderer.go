// Package output renders command reports as rich terminal output, plain
// text, JSON or YAML.
package output

import (
	"io"

	"github.com/quinox/confsync/pkg/errors"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	RenderReport(report *Report) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format; FormatAuto is resolved with
// DetectFormat.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return &terminalRenderer{w: output}, nil
	case FormatText:
		return &textRenderer{w: output}, nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	case FormatYAML:
		return &yamlRenderer{w: output}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "no renderer for format %d", int(format))
	}
}

func statusWidth(files []FileReport) int {
	w := 0
	for _, f := range files {
		if len(f.Status) > w {
			w = len(f.Status)
		}
	}
	return w
}
