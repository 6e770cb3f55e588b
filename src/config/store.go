package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	storeFileName  = ".ocr_screenshot_config.json"
	enginePathKey  = "tesseract_path"
	storeFilePerms = 0o600
)

// ErrConfigUnavailable marks a store file that could not be read or parsed.
// It never leaves this package; callers just see an empty EngineConfig.
var ErrConfigUnavailable = errors.New("engine config unavailable")

// EngineConfig is the persisted engine record. An empty EnginePath means absent.
type EngineConfig struct {
	EnginePath string
}

// Store persists EngineConfig as a small JSON object. It assumes a single
// writer process.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath returns ~/.ocr_screenshot_config.json.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home for engine config: %w", err)
	}
	return filepath.Join(home, storeFileName), nil
}

func (s *Store) Path() string { return s.path }

// Load returns the stored record, or an empty one on any failure.
func (s *Store) Load() EngineConfig {
	raw, err := s.readRaw()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("config: %v", err)
		}
		return EngineConfig{}
	}

	var cfg EngineConfig
	if v, ok := raw[enginePathKey]; ok {
		var p string
		if err := json.Unmarshal(v, &p); err != nil {
			log.Printf("config: %v: %s is not a string", ErrConfigUnavailable, enginePathKey)
			return EngineConfig{}
		}
		cfg.EnginePath = p
	}
	return cfg
}

// Save overwrites the record, keeping keys it does not own. Failures are
// logged and dropped: the store is a cache, not a requirement.
func (s *Store) Save(cfg EngineConfig) {
	raw, err := s.readRaw()
	if err != nil {
		raw = map[string]json.RawMessage{}
	}

	if cfg.EnginePath == "" {
		delete(raw, enginePathKey)
	} else {
		encoded, err := json.Marshal(cfg.EnginePath)
		if err != nil {
			log.Printf("config: encode engine path: %v", err)
			return
		}
		raw[enginePathKey] = encoded
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		log.Printf("config: encode %s: %v", s.path, err)
		return
	}
	if err := os.WriteFile(s.path, data, storeFilePerms); err != nil {
		log.Printf("config: write %s: %v", s.path, err)
		return
	}
	log.Printf("config: saved engine path to %s", s.path)
}

func (s *Store) readRaw() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfigUnavailable, s.path, err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfigUnavailable, s.path, err)
	}
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	return raw, nil
}
