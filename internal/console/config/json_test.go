package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"backend_url":  "http://www.example:9000",
		"storage_path": "/data/deck.db",
		"http_timeout": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.BackendURL)
		assert.Equal(t, "/data/deck.db", cfg.StoragePath)
		assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			BackendURL:  "http://defaults:1234",
			HTTPTimeout: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.BackendURL)
		assert.Equal(t, 42*time.Second, cfg.HTTPTimeout)
	})

	t.Run("missing fields keep previous values", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"backend_url": "http://only-url"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{StoragePath: "keepme.db", HTTPTimeout: 5 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "http://only-url", cfg.BackendURL)
		assert.Equal(t, "keepme.db", cfg.StoragePath)
		assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	})
}
