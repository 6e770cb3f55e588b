package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "engine.json"))

	want := `C:\Program Files\Tesseract-OCR\tesseract.exe`
	store.Save(EngineConfig{EnginePath: want})

	require.Equal(t, want, store.Load().EnginePath)
}

func TestStoreLoadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	require.Equal(t, EngineConfig{}, store.Load())
}

func TestStoreLoadCorruptContentIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{tesseract_path:"},
		{name: "array", content: `["a"]`},
		{name: "wrong type", content: `{"tesseract_path": 42}`},
		{name: "null", content: `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "engine.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			require.Equal(t, EngineConfig{}, NewStore(path).Load())
		})
	}
}

func TestStoreToleratesAndKeepsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark","tesseract_path":"/old"}`), 0o600))

	store := NewStore(path)
	require.Equal(t, "/old", store.Load().EnginePath)

	store.Save(EngineConfig{EnginePath: "/usr/bin/tesseract"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "dark", raw["theme"])
	require.Equal(t, "/usr/bin/tesseract", raw["tesseract_path"])
}

func TestStoreSaveFailureIsSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	store := NewStore(filepath.Join(blocker, "engine.json"))
	require.NotPanics(t, func() {
		store.Save(EngineConfig{EnginePath: "/usr/bin/tesseract"})
	})
	require.Equal(t, EngineConfig{}, store.Load())
}

func TestStoreSaveOverCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	store := NewStore(path)
	store.Save(EngineConfig{EnginePath: "/opt/tesseract"})
	require.Equal(t, "/opt/tesseract", store.Load().EnginePath)
}
