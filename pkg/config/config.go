package config

// Output formats accepted by output.format
const (
	FormatAuto = "auto"
	FormatTerm = "term"
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// History strategies accepted by history.strategy
const (
	StrategyIndex = "index"
	StrategyWalk  = "walk"
)

// Config is the effective conf-sync configuration
type Config struct {
	Paths   Paths   `koanf:"paths" toml:"paths"`
	Diff    Diff    `koanf:"diff" toml:"diff"`
	History History `koanf:"history" toml:"history"`
	Output  Output  `koanf:"output" toml:"output"`

	// Files lists the configuration files that were read, in load order
	Files []string `koanf:"-" toml:"-"`

	// SourceFallback is set when no source was configured and the working
	// directory, outside any git repository, was used instead
	SourceFallback bool `koanf:"-" toml:"-"`
}

// Paths locates the source tree and the deployment targets
type Paths struct {
	Source  string   `koanf:"source" toml:"source"`
	Home    string   `koanf:"home" toml:"home"`
	Root    string   `koanf:"root" toml:"root"`
	Backups string   `koanf:"backups" toml:"backups"`
	Ignore  []string `koanf:"ignore" toml:"ignore"`
}

// Diff controls unified diff rendering
type Diff struct {
	Context int    `koanf:"context" toml:"context"`
	Repo    string `koanf:"repo" toml:"repo"`
	Fs      string `koanf:"fs" toml:"fs"`
}

// History selects how destinations are looked up in version control
type History struct {
	Strategy string `koanf:"strategy" toml:"strategy"`
	Git      string `koanf:"git" toml:"git"`
}

// Output selects the report format
type Output struct {
	Format string `koanf:"format" toml:"format"`
	Styles string `koanf:"styles" toml:"styles"`
}
