package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/quinox/confsync/pkg/errors"
	"github.com/quinox/confsync/pkg/paths"
)

// EnvPrefix starts every environment override
const EnvPrefix = "CONF_SYNC_"

// LoadOptions tell Load where to look
type LoadOptions struct {
	// UserConfigPath defaults to config.toml in paths.DefaultConfigDir()
	UserConfigPath string

	// Overrides are flat dotted keys (e.g. "paths.source") applied last
	Overrides map[string]interface{}

	// SkipSourceConfig disables reading .conf-sync.toml from the source tree
	SkipSourceConfig bool
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	var files []string

	base, err := parseBytes(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = filepath.Join(paths.DefaultConfigDir(), paths.ConfigFileName)
	}
	if loaded, err := mergeFile(base, userPath); err != nil {
		return nil, err
	} else if loaded {
		files = append(files, userPath)
	}

	// The source tree's own file can only be found once the top layers
	// have had their say about paths.source
	top, err := topLayers(opts.Overrides)
	if err != nil {
		return nil, err
	}

	settled := copyMap(base)
	mergeMaps(settled, copyMap(top))
	source, _ := lookup(settled, "paths", "source").(string)

	p, err := paths.New(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to resolve source root")
	}

	if !opts.SkipSourceConfig {
		if loaded, err := mergeFile(base, p.SourceConfigPath()); err != nil {
			return nil, err
		} else if loaded {
			files = append(files, p.SourceConfigPath())
		}
	}
	mergeMaps(base, top)

	cfg, err := decode(base)
	if err != nil {
		return nil, err
	}
	cfg.Paths.Source = p.SourceRoot()
	cfg.Files = files
	cfg.SourceFallback = p.UsedFallback()

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults with paths resolved against root
func Default(sourceRoot string) (*Config, error) {
	base, err := parseBytes(defaultConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}
	cfg, err := decode(base)
	if err != nil {
		return nil, err
	}
	cfg.Paths.Source = sourceRoot
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseBytes(data []byte) (map[string]interface{}, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, toml.Parser()); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// mergeFile merges a TOML file into dest when it exists
func mergeFile(dest map[string]interface{}, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", path).
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	mergeMaps(dest, k.Raw())
	return true, nil
}

// topLayers collects environment variables and explicit overrides. Values
// here replace lower layers instead of appending to them.
func topLayers(overrides map[string]interface{}) (map[string]interface{}, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	top := k.Raw()
	markReplace(top)
	return top, nil
}

func decode(raw map[string]interface{}) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(unwrapReplace(raw), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load merged config")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// finalize fills derived defaults and validates the result
func finalize(cfg *Config) error {
	if cfg.Paths.Home == "" {
		home, err := paths.GetHomeDirectory()
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "paths.home is not set and no home directory was found")
		}
		cfg.Paths.Home = home
	}
	cfg.Paths.Home = paths.ExpandHome(cfg.Paths.Home)
	cfg.Paths.Backups = paths.ExpandHome(cfg.Paths.Backups)
	cfg.Output.Styles = paths.ExpandHome(cfg.Output.Styles)
	if cfg.Paths.Root == "" {
		cfg.Paths.Root = string(filepath.Separator)
	}

	return Validate(cfg)
}

// Validate checks enumerated and numeric settings
func Validate(cfg *Config) error {
	if cfg.Diff.Context < 0 {
		return errors.Newf(errors.ErrConfigValid, "diff.context must not be negative, got %d", cfg.Diff.Context).
			WithDetail("key", "diff.context")
	}
	if !slices.Contains([]string{StrategyIndex, StrategyWalk}, cfg.History.Strategy) {
		return errors.Newf(errors.ErrConfigValid, "unknown history.strategy %q", cfg.History.Strategy).
			WithDetail("key", "history.strategy")
	}
	formats := []string{FormatAuto, FormatTerm, FormatText, FormatJSON, FormatYAML}
	if !slices.Contains(formats, cfg.Output.Format) {
		return errors.Newf(errors.ErrConfigValid, "unknown output.format %q", cfg.Output.Format).
			WithDetail("key", "output.format")
	}
	return nil
}
