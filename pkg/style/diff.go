package style

import "strings"

// DiffLine colours one line of a unified diff
func DiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return Render("DiffHeader", line)
	case strings.HasPrefix(line, "@@"):
		return Render("DiffHunk", line)
	case strings.HasPrefix(line, "+"):
		return Render("DiffAdd", line)
	case strings.HasPrefix(line, "-"):
		return Render("DiffRemove", line)
	default:
		return Render("DiffContext", line)
	}
}

// Diff colours every line of a unified diff
func Diff(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = DiffLine(l)
	}
	return out
}
