// Package filesystem provides the file operations conf-sync performs.
//
// Everything goes through an afero.Fs so the sync engine runs unchanged
// against the real disk (NewOS) or an in-memory filesystem in tests.
package filesystem
