package engine

import (
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"screen-ocr/src/config"
)

// ErrEngineNotFound is logged when every strategy came up empty.
var ErrEngineNotFound = errors.New("OCR engine not found")

// Store is the part of config.Store the locator needs.
type Store interface {
	Load() config.EngineConfig
	Save(config.EngineConfig)
}

// Finder is the exhaustive-scan strategy.
type Finder interface {
	Find(name string) (string, bool)
}

// Locator resolves the engine executable. Strategies run in a fixed order and
// the first hit wins; nil Finder or Prompter disables that step.
type Locator struct {
	Store          Store
	ExecutableName string
	LookPath       func(file string) (string, error)
	KnownPaths     []string
	Scanner        Finder
	Prompter       Prompter
	DownloadURL    string
}

// ExecutableName is the engine binary name for the running platform.
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return "tesseract.exe"
	}
	return "tesseract"
}

// KnownLocations lists conventional install paths, the cwd-relative bundle first.
func KnownLocations(cwd string) []string {
	name := ExecutableName()
	paths := []string{filepath.Join(cwd, "Tesseract-OCR", name)}

	switch runtime.GOOS {
	case "windows":
		paths = append(paths,
			`C:\Program Files\Tesseract-OCR\`+name,
			`C:\Program Files (x86)\Tesseract-OCR\`+name,
		)
	case "darwin":
		paths = append(paths,
			"/opt/homebrew/bin/"+name,
			"/usr/local/bin/"+name,
		)
	default:
		paths = append(paths,
			"/usr/bin/"+name,
			"/usr/local/bin/"+name,
			"/snap/bin/"+name,
		)
	}
	return paths
}

// NewLocator wires the default strategies from runtime settings. prompter may
// be nil for non-interactive callers.
func NewLocator(cfg *config.Config, store Store, prompter Prompter) *Locator {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	l := &Locator{
		Store:          store,
		ExecutableName: ExecutableName(),
		LookPath:       exec.LookPath,
		KnownPaths:     KnownLocations(cwd),
		Prompter:       prompter,
		DownloadURL:    cfg.DownloadURL,
	}
	if cfg.ScanEnabled {
		roots := cfg.ScanRoots
		if len(roots) == 0 {
			roots = DefaultScanRoots()
		}
		l.Scanner = NewScanner(roots, cfg.ScanMaxDirs)
	}
	return l
}

// Resolve returns the engine path, or false when nothing usable was found.
func (l *Locator) Resolve() (string, bool) {
	if p := l.Store.Load().EnginePath; p != "" && isFile(p) {
		log.Printf("engine: using cached path %s", p)
		return p, true
	}

	if l.LookPath != nil {
		if p, err := l.LookPath(l.ExecutableName); err == nil && isFile(p) {
			return l.remember("search path", p), true
		}
	}

	for _, p := range l.KnownPaths {
		if isFile(p) {
			return l.remember("known location", p), true
		}
	}

	if l.Scanner != nil {
		if p, ok := l.Scanner.Find(l.ExecutableName); ok {
			return l.remember("filesystem scan", p), true
		}
	}

	if l.Prompter != nil {
		if p, ok := resolveInteractively(l.Prompter, l.ExecutableName, l.DownloadURL); ok {
			return l.remember("user selection", p), true
		}
	}

	log.Printf("engine: %v", ErrEngineNotFound)
	return "", false
}

func (l *Locator) remember(strategy, path string) string {
	log.Printf("engine: found %s via %s", path, strategy)
	cfg := l.Store.Load()
	cfg.EnginePath = path
	l.Store.Save(cfg)
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
