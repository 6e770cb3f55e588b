//go:build windows

package engine

import (
	"log"

	"golang.org/x/sys/windows"
)

// candidateDrives mirrors the drives a typical install lands on.
const candidateDrives = "CDEF"

// DefaultScanRoots returns the candidate drives that are actually mounted.
func DefaultScanRoots() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		log.Printf("engine: GetLogicalDrives: %v", err)
		return nil
	}

	var roots []string
	for _, letter := range candidateDrives {
		if mask&(1<<uint(letter-'A')) != 0 {
			roots = append(roots, string(letter)+`:\`)
		}
	}
	return roots
}
