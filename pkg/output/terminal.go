package output

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/quinox/confsync/pkg/style"
)

// terminalRenderer writes coloured output for interactive terminals
type terminalRenderer struct {
	w io.Writer
}

func (r *terminalRenderer) RenderReport(report *Report) error {
	if len(report.Files) > 0 {
		if err := r.renderFiles(report.Files); err != nil {
			return err
		}
	}

	for _, u := range report.Updates {
		indicator := style.SkipIndicator()
		switch {
		case u.Error != "":
			indicator = style.ErrorIndicator()
		case u.Updated:
			indicator = style.SuccessIndicator()
		}
		if _, err := fmt.Fprintf(r.w, "%s %s\n", indicator, describeUpdate(u)); err != nil {
			return err
		}
	}

	if len(report.Mappings) > 0 {
		data := pterm.TableData{{style.Render("Header", "Source"), style.Render("Header", "Destination")}}
		for _, m := range report.Mappings {
			data = append(data, []string{m.Source, style.Render("Path", m.Destination)})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(r.w, table); err != nil {
			return err
		}
	}

	for _, m := range report.Unmanaged {
		if _, err := fmt.Fprintf(r.w, "%s %s %s\n", style.Render("Warning", "?"),
			style.Render("Path", m.Destination), style.Render("Muted", "source would be "+m.Source)); err != nil {
			return err
		}
	}

	for _, e := range report.Errors {
		if _, err := fmt.Fprintf(r.w, "%s %s\n", style.Render("Error", "Error:"), e); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) renderFiles(files []FileReport) error {
	width := statusWidth(files)
	for _, f := range files {
		counts := style.Render("Muted", fmt.Sprintf("%d same, %d different", f.SameSections, f.DiffSections))
		if len(f.Diff) > 0 {
			counts += style.MergeStyles("Count", "DiffAdd").Render(fmt.Sprintf("+%d", f.Added)) +
				style.MergeStyles("Count", "DiffRemove").Render(fmt.Sprintf("-%d", f.Removed))
		}
		if _, err := fmt.Fprintf(r.w, "%s %s %s\n",
			style.StatusBadge(f.Status, width), style.Render("Path", f.Destination), counts); err != nil {
			return err
		}
		if f.Warning != "" {
			if _, err := fmt.Fprintf(r.w, "  %s %s\n", style.Render("Warning", "!"), f.Warning); err != nil {
				return err
			}
		}
		for _, line := range style.Diff(f.Diff) {
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *terminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "%s %v\n", style.Render("Error", "Error:"), err)
	return werr
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, style.Render("Info", msg))
	return err
}
