package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("OCR_LANGUAGES", "eng+deu")
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("HOTKEY", "Ctrl+Shift+T")
	t.Setenv("ENGINE_SCAN", "yes")
	t.Setenv("ENGINE_SCAN_ROOTS", " /mnt/a , ,/mnt/b")
	t.Setenv("ENGINE_SCAN_MAX_DIRS", "250")
	t.Setenv("OCR_BACKEND", "gosseract")
	t.Setenv("OCR_UPSCALE", "2")
	t.Setenv(EngineStoreEnvVar, filepath.Join(t.TempDir(), "engine.json"))

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "eng+deu", cfg.Languages)
	require.True(t, cfg.EnableFileLogging)
	require.Equal(t, "Ctrl+Shift+T", cfg.Hotkey)
	require.True(t, cfg.ScanEnabled)
	require.Equal(t, []string{"/mnt/a", "/mnt/b"}, cfg.ScanRoots)
	require.Equal(t, 250, cfg.ScanMaxDirs)
	require.Equal(t, BackendLibrary, cfg.Backend)
	require.Equal(t, 2.0, cfg.Upscale)
	require.Equal(t, "engine.json", filepath.Base(cfg.EngineStorePath))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"OCR_LANGUAGES", "HOTKEY", "ENGINE_SCAN_MAX_DIRS", "OCR_BACKEND", "OCR_UPSCALE", "ENGINE_DOWNLOAD_URL"} {
		t.Setenv(key, "")
	}
	t.Setenv(EngineStoreEnvVar, filepath.Join(t.TempDir(), "engine.json"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultLanguages, cfg.Languages)
	require.Equal(t, DefaultHotkey, cfg.Hotkey)
	require.Equal(t, DefaultScanMaxDirs, cfg.ScanMaxDirs)
	require.Equal(t, BackendCLI, cfg.Backend)
	require.Equal(t, 1.0, cfg.Upscale)
	require.Equal(t, DefaultDownloadURL, cfg.DownloadURL)
}

func TestLoadWithOptionsOverrides(t *testing.T) {
	t.Setenv("OCR_LANGUAGES", "eng")
	t.Setenv(EngineStoreEnvVar, "/from/env.json")

	cfg, err := LoadWithOptions(LoadOptions{
		EngineStorePathOverride: "/from/flag.json",
		LanguagesOverride:       "fra",
	})
	require.NoError(t, err)
	require.Equal(t, "/from/flag.json", cfg.EngineStorePath)
	require.Equal(t, "fra", cfg.Languages)
}

func TestParseHelpersRejectGarbage(t *testing.T) {
	require.Equal(t, 7, parsePositiveInt("-3", 7))
	require.Equal(t, 7, parsePositiveInt("abc", 7))
	require.Equal(t, 1.0, parseUpscale("9"))
	require.Equal(t, 1.0, parseUpscale("0.5"))
	require.True(t, parseBoolWithDefault("maybe", true))
	require.False(t, parseBoolWithDefault("off", true))
}
