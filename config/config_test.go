package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/stacker/engine"
)

// isolate points the env file lookup at dir and returns a path inside it
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	t.Setenv(EnvPrefix+KeyEnvFile, path)
	return path
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultGame, cfg.Game)
	assert.Equal(t, engine.DefaultTuning(), cfg.Tuning)
	assert.True(t, cfg.Audio.Enabled)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.SessionToken)
}

func TestLoadPrecedence(t *testing.T) {
	envFile := isolate(t)
	writeFile(t, envFile, strings.Join([]string{
		"STACKER_GAME=from-file",
		"STACKER_SESSION=file-token",
		"STACKER_VOLUME=0.25",
		"STACKER_DEBUG=true",
	}, "\n"))
	t.Setenv(EnvPrefix+KeySession, "env-token")
	t.Setenv(EnvPrefix+KeyAudio, "false")

	cfg, err := Load([]string{"-game", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Game, "flag beats file")
	assert.Equal(t, "env-token", cfg.SessionToken, "environment beats file")
	assert.Equal(t, 0.25, cfg.Audio.Volume)
	assert.False(t, cfg.Audio.Enabled)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "bool", env: map[string]string{KeyDebug: "maybe"}},
		{name: "float", env: map[string]string{KeyVolume: "loud"}},
		{name: "volume range", args: []string{"-volume", "1.5"}},
		{name: "empty game", args: []string{"-game", "  "}},
		{name: "unknown flag", args: []string{"-turbo"}},
		{name: "positional", args: []string{"extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(EnvPrefix+k, v)
			}
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadHelp(t *testing.T) {
	isolate(t)
	_, err := Load([]string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestTuningFileOverlay(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tuning.json")
	writeFile(t, path, `{"initial_speed": 3, "max_speed": 12, "time_limit_ms": 8000}`)

	cfg, err := Load([]string{"-tuning", path})
	require.NoError(t, err)

	want := engine.DefaultTuning()
	want.InitialSpeed = 3
	want.MaxSpeed = 12
	want.TimeLimit = 8 * time.Second
	assert.Equal(t, want, cfg.Tuning)
}

func TestTuningFileErrors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.json")
	writeFile(t, unknown, `{"gravity": 9.8}`)
	tuning := engine.DefaultTuning()
	assert.Error(t, LoadTuning(unknown, &tuning))

	assert.Error(t, LoadTuning(filepath.Join(dir, "missing.json"), &tuning))

	invalid := filepath.Join(dir, "invalid.json")
	writeFile(t, invalid, `{"initial_width": 5000}`)
	isolate(t)
	_, err := Load([]string{"-tuning", invalid})
	assert.ErrorIs(t, err, engine.ErrBlockTooWide)
}

func TestNetworkEndpoints(t *testing.T) {
	cfg := Default()
	nc := cfg.Network()
	assert.Empty(t, nc.StoreURL)
	assert.Empty(t, nc.RealtimeURL)

	cfg.APIBase = "https://api.example.test/"
	nc = cfg.Network()
	assert.Equal(t, "https://api.example.test/store", nc.StoreURL)
	assert.Equal(t, "https://api.example.test/score", nc.ScoreURL)
	assert.Equal(t, "wss://api.example.test/realtime", nc.RealtimeURL)

	cfg.ScoreURL = "https://scores.example.test/submit"
	nc = cfg.Network()
	assert.Equal(t, "https://scores.example.test/submit", nc.ScoreURL)
	assert.Equal(t, "https://api.example.test/store", nc.StoreURL)
}

func TestUsageListsFlags(t *testing.T) {
	var b strings.Builder
	Usage(&b)
	for _, name := range []string{"-game", "-session", "-tuning", "-volume", "STACKER_"} {
		assert.Contains(t, b.String(), name)
	}
}
