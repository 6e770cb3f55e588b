package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultLanguages    = "eng+ara"
	DefaultHotkey       = "Ctrl+Alt+O"
	DefaultScanMaxDirs  = 4000
	DefaultDownloadURL  = "https://sourceforge.net/projects/tesseract-ocr.mirror/"
	BackendCLI          = "cli"
	BackendLibrary      = "library"
	EngineStoreEnvVar   = "ENGINE_CONFIG_PATH"
	SettingsPathEnvVar  = "SCREEN_OCR"
	defaultUpscaleValue = 1.0
)

type LoadOptions struct {
	EngineStorePathOverride string
	LanguagesOverride       string
}

// Config holds the runtime settings. The engine path itself is not part of it;
// that lives in the Store so discoveries survive restarts.
type Config struct {
	Languages         string
	Backend           string
	Upscale           float64
	EnableFileLogging bool
	Hotkey            string
	EngineStorePath   string
	ScanEnabled       bool
	ScanRoots         []string
	ScanMaxDirs       int
	DownloadURL       string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, SCREEN_OCR env var as a path to a settings file
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	storePath, err := resolveStorePath(opts)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Languages:         resolveLanguages(opts),
		Backend:           resolveBackend(os.Getenv("OCR_BACKEND")),
		Upscale:           parseUpscale(os.Getenv("OCR_UPSCALE")),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		EngineStorePath:   storePath,
		ScanEnabled:       parseBoolWithDefault(os.Getenv("ENGINE_SCAN"), runtime.GOOS == "windows"),
		ScanRoots:         splitList(os.Getenv("ENGINE_SCAN_ROOTS")),
		ScanMaxDirs:       parsePositiveInt(os.Getenv("ENGINE_SCAN_MAX_DIRS"), DefaultScanMaxDirs),
		DownloadURL:       getEnvWithDefault("ENGINE_DOWNLOAD_URL", DefaultDownloadURL),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(SettingsPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveStorePath(opts LoadOptions) (string, error) {
	if override := strings.TrimSpace(opts.EngineStorePathOverride); override != "" {
		return override, nil
	}
	if envPath := strings.TrimSpace(os.Getenv(EngineStoreEnvVar)); envPath != "" {
		return envPath, nil
	}
	return DefaultStorePath()
}

// resolveLanguages never yields an empty spec: the engine is always asked for at
// least one language.
func resolveLanguages(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.LanguagesOverride); override != "" {
		return override
	}
	return getEnvWithDefault("OCR_LANGUAGES", DefaultLanguages)
}

func resolveBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BackendLibrary, "gosseract":
		return BackendLibrary
	default:
		return BackendCLI
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolWithDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

func parsePositiveInt(value string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseUpscale(value string) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f >= 1 && f <= 4 {
		return f
	}
	return defaultUpscaleValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
