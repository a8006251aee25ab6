package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/quinox/confsync/pkg/errors"
)

// Generate renders the effective configuration as TOML
func Generate(cfg *Config) (string, error) {
	data, err := gotoml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return string(data), nil
}

// Template returns the defaults with every value commented out, suitable
// as a starting config.toml
func Template() string {
	return commentOutConfigValues(DefaultContent())
}

// commentOutConfigValues comments out every assignment, keeping comments,
// blank lines and table headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
