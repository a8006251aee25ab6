// Package paths provides centralized path handling for conf-sync.
//
// It covers:
//
//   - Source tree root discovery and configuration
//   - XDG directories for the user configuration file and the log file
//   - Path normalization and home expansion
//   - Mapping source-relative files to their deployed destinations
//
// # Environment Variables
//
//   - CONF_SYNC_SOURCE: location of the source tree (default: git toplevel of cwd, else cwd)
//   - CONF_SYNC_CONFIG_DIR: override the config directory (default: $XDG_CONFIG_HOME/conf-sync)
//
// # Source Layout
//
// The source tree mirrors the filesystem. A top-level __home__ folder maps to
// the user's home directory; every other top-level entry maps under the root
// (normally "/"). A path segment starting with "__." is deployed with a leading
// dot, so __home__/__.vimrc becomes ~/.vimrc.
package paths
