package output

import (
	"fmt"
	"io"
)

// textRenderer writes unstyled, line-oriented output
type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) RenderReport(report *Report) error {
	width := statusWidth(report.Files)
	for _, f := range report.Files {
		if _, err := fmt.Fprintf(r.w, "%-*s  %s  (%d same, %d different)\n",
			width, f.Status, f.Destination, f.SameSections, f.DiffSections); err != nil {
			return err
		}
		if f.Warning != "" {
			if _, err := fmt.Fprintf(r.w, "  warning: %s\n", f.Warning); err != nil {
				return err
			}
		}
		for _, line := range f.Diff {
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}

	for _, u := range report.Updates {
		if _, err := fmt.Fprintln(r.w, describeUpdate(u)); err != nil {
			return err
		}
	}

	for _, m := range report.Mappings {
		if _, err := fmt.Fprintf(r.w, "%s -> %s\n", m.Source, m.Destination); err != nil {
			return err
		}
	}

	for _, m := range report.Unmanaged {
		if _, err := fmt.Fprintf(r.w, "unmanaged %s (source would be %s)\n", m.Destination, m.Source); err != nil {
			return err
		}
	}

	for _, e := range report.Errors {
		if _, err := fmt.Fprintf(r.w, "Error: %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "Error: %v\n", err)
	return werr
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

// describeUpdate renders an update outcome as one sentence
func describeUpdate(u UpdateReport) string {
	switch {
	case u.Error != "":
		return fmt.Sprintf("failed    %s: %s", u.Destination, u.Error)
	case u.DryRun:
		return fmt.Sprintf("would write %s", u.WrittenPath)
	case u.Updated && u.BackupPath != "":
		return fmt.Sprintf("updated   %s (backup: %s)", u.WrittenPath, u.BackupPath)
	case u.Updated:
		return fmt.Sprintf("updated   %s", u.WrittenPath)
	default:
		return fmt.Sprintf("skipped   %s: %s", u.Destination, u.Reason)
	}
}
