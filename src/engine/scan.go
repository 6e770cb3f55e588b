package engine

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// SkipFragments prunes noisy or inaccessible system trees.
var SkipFragments = []string{
	"$Recycle.Bin",
	"System Volume Information",
	filepath.Join("Windows", "WinSxS"),
}

// Scanner walks roots top-down looking for a file by name. The directory
// budget is shared across all roots.
type Scanner struct {
	Roots   []string
	MaxDirs int
	Skip    []string

	readDir func(string) ([]os.DirEntry, error)
	visited int
}

func NewScanner(roots []string, maxDirs int) *Scanner {
	return &Scanner{
		Roots:   roots,
		MaxDirs: maxDirs,
		Skip:    SkipFragments,
		readDir: os.ReadDir,
	}
}

// Visited reports how many directories the last Find examined.
func (s *Scanner) Visited() int { return s.visited }

// Find returns the first regular file whose name matches name case-insensitively.
func (s *Scanner) Find(name string) (string, bool) {
	s.visited = 0
	readDir := s.readDir
	if readDir == nil {
		readDir = os.ReadDir
	}

	for _, root := range s.Roots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		log.Printf("engine: scanning %s (visited %d/%d)", root, s.visited, s.MaxDirs)

		stack := []string{root}
		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if s.visited >= s.MaxDirs {
				log.Printf("engine: scan budget of %d directories exhausted", s.MaxDirs)
				return "", false
			}
			s.visited++

			if s.skipped(dir) {
				continue
			}

			entries, err := readDir(dir)
			if err != nil {
				continue
			}

			var children []string
			for _, e := range entries {
				full := filepath.Join(dir, e.Name())
				if e.IsDir() {
					children = append(children, full)
					continue
				}
				if strings.EqualFold(e.Name(), name) && isFile(full) {
					return full, true
				}
			}
			// Reverse so the stack pops children in listing order.
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
	return "", false
}

func (s *Scanner) skipped(dir string) bool {
	for _, frag := range s.Skip {
		if strings.Contains(dir, frag) {
			return true
		}
	}
	return false
}
