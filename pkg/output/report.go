package output

import (
	"github.com/quinox/confsync/pkg/confsync"
	"github.com/quinox/confsync/pkg/diff"
)

// Report is everything a command wants to show
type Report struct {
	Command  string          `json:"command" yaml:"command"`
	Files    []FileReport    `json:"files,omitempty" yaml:"files,omitempty"`
	Updates  []UpdateReport  `json:"updates,omitempty" yaml:"updates,omitempty"`
	Mappings []MappingReport `json:"mappings,omitempty" yaml:"mappings,omitempty"`

	// Unmanaged pairs destinations nothing in the tree deploys with the
	// source path that would
	Unmanaged []MappingReport `json:"unmanaged,omitempty" yaml:"unmanaged,omitempty"`
	Errors    []string        `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// FileReport describes one source/destination pair
type FileReport struct {
	Source       string   `json:"source" yaml:"source"`
	Destination  string   `json:"destination" yaml:"destination"`
	Status       string   `json:"status" yaml:"status"`
	SameSections int      `json:"same_sections" yaml:"same_sections"`
	DiffSections int      `json:"diff_sections" yaml:"diff_sections"`
	Revision     string   `json:"revision,omitempty" yaml:"revision,omitempty"`
	Warning      string   `json:"warning,omitempty" yaml:"warning,omitempty"`
	Added        int      `json:"added,omitempty" yaml:"added,omitempty"`
	Removed      int      `json:"removed,omitempty" yaml:"removed,omitempty"`
	Diff         []string `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// UpdateReport describes the outcome of one update
type UpdateReport struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Status      string `json:"status" yaml:"status"`
	Updated     bool   `json:"updated" yaml:"updated"`
	DryRun      bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	WrittenPath string `json:"written_path,omitempty" yaml:"written_path,omitempty"`
	BackupPath  string `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Reason      string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MappingReport pairs a source file with where it is deployed
type MappingReport struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// NewFileReport summarizes cfg, including its diff when withDiff is set
func NewFileReport(cfg *confsync.SourceConfig, withDiff bool) (FileReport, error) {
	fr := FileReport{
		Source:       cfg.SourcePath(),
		Destination:  cfg.DestinationPath(),
		Status:       cfg.Status().String(),
		SameSections: cfg.NrOfSameSections(),
		DiffSections: cfg.NrOfDiffSections(),
		Revision:     cfg.Revision(),
	}
	if err := cfg.ClassifyErr(); err != nil {
		fr.Warning = err.Error()
	}
	if withDiff && cfg.Status().NeedsUpdate() {
		d, err := cfg.Diff()
		if err != nil {
			return FileReport{}, err
		}
		fr.Diff = d
		fr.Added, fr.Removed = diff.Stats(d)
	}
	return fr, nil
}

// NewUpdateReport records the outcome of cfg.Update
func NewUpdateReport(cfg *confsync.SourceConfig, result confsync.UpdateResult, err error) UpdateReport {
	ur := UpdateReport{
		Source:      cfg.SourcePath(),
		Destination: cfg.DestinationPath(),
		Status:      cfg.Status().String(),
		Updated:     result.Updated,
		DryRun:      result.DryRun,
		WrittenPath: result.WrittenPath,
		BackupPath:  result.BackupPath,
		Reason:      result.Reason,
	}
	if err != nil {
		ur.Error = err.Error()
	}
	return ur
}
