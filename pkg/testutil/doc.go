// Package testutil provides helpers shared by the conf-sync test suites.
//
// Key components:
//   - FileTree: declarative file layout, written to afero or the real disk
//   - Environment: an isolated source tree, home and state directory with a
//     user config pointing conf-sync at them
//   - GitRepo: throwaway repositories for history lookups
//
// The package imports nothing from conf-sync itself so that every package,
// including internal test files, can use it.
package testutil
