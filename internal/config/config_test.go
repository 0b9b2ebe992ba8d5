package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no config file is found
// unless the test writes one.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, int64(65536), cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 5*time.Second, cfg.WriteWait)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, "drop", cfg.Backpressure)
	assert.Equal(t, "relay:frames", cfg.RedisChannel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.ICEServers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PASSWORD", "pw")
	t.Setenv("PORT", "9000")
	t.Setenv("BACKPRESSURE", "KICK")
	t.Setenv("PING_PERIOD", "10s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ICE_SERVERS", "stun:stun.l.google.com:19302,turn:turn.example.com:3478")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "kick", cfg.Backpressure)
	assert.Equal(t, 10*time.Second, cfg.PingPeriod)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302", "turn:turn.example.com:3478"}, cfg.ICEServers)
}

func TestLoad_File(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	yaml := "port: 7000\npassword: from-file\nsend_buffer: 8\nice_servers:\n  - stun:stun.example.com:3478\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644))
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-file", cfg.Password)
	assert.Equal(t, 8, cfg.SendBuffer)
	assert.Equal(t, []string{"stun:stun.example.com:3478"}, cfg.ICEServers)
}

func TestLoad_MissingPassword(t *testing.T) {
	inTempDir(t)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PASSWORD", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingPassword)
}

func TestLoad_UnknownBackpressure(t *testing.T) {
	inTempDir(t)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("PASSWORD", "pw")
	t.Setenv("BACKPRESSURE", "block")

	_, err := Load()
	assert.ErrorContains(t, err, "backpressure")
}
