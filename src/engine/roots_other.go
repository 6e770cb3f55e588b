//go:build !windows

package engine

// DefaultScanRoots is empty off Windows: installs there land in the known
// locations, so the scan only runs over explicitly configured roots.
func DefaultScanRoots() []string { return nil }
