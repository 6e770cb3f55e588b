package runtimeinit

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"screen-ocr/src/config"
	"screen-ocr/src/engine"
	"screen-ocr/src/ocr"
)

func TestBootstrapUsesStoreOverride(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "engine.json")
	var logging *bool

	rt, err := Bootstrap(Options{
		LoadOptions:  config.LoadOptions{EngineStorePathOverride: storePath, LanguagesOverride: "deu"},
		SetupLogging: func(enabled bool) { logging = &enabled },
	})
	require.NoError(t, err)
	require.NotNil(t, logging)
	require.Equal(t, storePath, rt.Store.Path())
	require.Equal(t, "deu", rt.NewPipeline(nil).Languages())
}

func TestResolveEngineFromCachedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a unix file mode")
	}
	dir := t.TempDir()
	exe := filepath.Join(dir, "tesseract")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	storePath := filepath.Join(dir, "engine.json")
	config.NewStore(storePath).Save(config.EngineConfig{EnginePath: exe})

	rt, err := Bootstrap(Options{LoadOptions: config.LoadOptions{EngineStorePathOverride: storePath}})
	require.NoError(t, err)
	rt.Config.Backend = config.BackendCLI

	eng, path, err := rt.ResolveEngine(nil)
	require.NoError(t, err)
	require.Equal(t, exe, path)
	require.IsType(t, &ocr.Tesseract{}, eng)
	require.True(t, rt.NewPipeline(eng).Ready())
}

func TestResolveEngineDegraded(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rt, err := Bootstrap(Options{LoadOptions: config.LoadOptions{EngineStorePathOverride: filepath.Join(dir, "engine.json")}})
	require.NoError(t, err)
	rt.Config.Backend = config.BackendCLI
	rt.Config.ScanEnabled = true
	rt.Config.ScanRoots = []string{dir}

	eng, _, err := rt.ResolveEngine(nil)
	if err == nil {
		t.Skipf("an engine is installed system-wide")
	}
	require.ErrorIs(t, err, engine.ErrEngineNotFound)
	require.Nil(t, eng)
	require.False(t, rt.NewPipeline(eng).Ready())
}
