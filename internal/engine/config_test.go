package engine

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
			os.Unsetenv(key)
		}
	}
}

// TestLoadConfig_Defaults tests the configuration defaults
func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t, "TESSERA_LOG", "TESSERA_LOG_FORMAT", "TESSERA_LOG_FILE", "TESSERA_TICK_MS", "TESSERA_SEED")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.LogFile)
	assert.Equal(t, 80*time.Millisecond, cfg.Tick())
	assert.Nil(t, cfg.Seed, "No seed unless TESSERA_SEED is set")
}

// TestLoadConfig_EnvOverrides tests environment overrides
func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TESSERA_LOG", "debug")
	t.Setenv("TESSERA_LOG_FORMAT", "json")
	t.Setenv("TESSERA_TICK_MS", "25")
	t.Setenv("TESSERA_SEED", "1337")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 25*time.Millisecond, cfg.Tick())
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(1337), *cfg.Seed)
}

// TestConfig_EffectiveSeed_Precedence tests seed resolution order
func TestConfig_EffectiveSeed_Precedence(t *testing.T) {
	flagSeed := uint64(7)
	envSeed := uint64(99)

	tests := []struct {
		name      string
		opts      RunOptions
		cfg       Config
		wantSeed  uint64
		wantFixed bool
	}{
		{
			name:      "FlagBeatsEnv",
			opts:      RunOptions{Seed: &flagSeed},
			cfg:       Config{Seed: &envSeed},
			wantSeed:  7,
			wantFixed: true,
		},
		{
			name:      "EnvWhenNoFlag",
			opts:      RunOptions{},
			cfg:       Config{Seed: &envSeed},
			wantSeed:  99,
			wantFixed: true,
		},
		{
			name:      "NeitherMeansRandom",
			opts:      RunOptions{},
			cfg:       Config{},
			wantFixed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed, fixed := tt.opts.EffectiveSeed(tt.cfg)
			assert.Equal(t, tt.wantFixed, fixed)
			if tt.wantFixed {
				assert.Equal(t, tt.wantSeed, seed)
			}
		})
	}
}

// TestConfig_OpenLogSink tests log sink selection
func TestConfig_OpenLogSink(t *testing.T) {
	t.Run("InteractiveWithoutFile_Discards", func(t *testing.T) {
		w, closer, err := Config{}.OpenLogSink(false)
		require.NoError(t, err)
		assert.Equal(t, io.Discard, w, "Stdout belongs to the renderer")
		assert.Nil(t, closer)
	})

	t.Run("Headless_LogsToStderr", func(t *testing.T) {
		w, closer, err := Config{}.OpenLogSink(true)
		require.NoError(t, err)
		assert.Equal(t, os.Stderr, w)
		assert.Nil(t, closer)
	})

	t.Run("LogFile_OpensForAppend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tessera.log")
		cfg := Config{LogFile: path}

		w, closer, err := cfg.OpenLogSink(false)
		require.NoError(t, err)
		require.NotNil(t, closer)
		_, err = w.Write([]byte("hello\n"))
		require.NoError(t, err)
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})
}
