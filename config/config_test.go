package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndUnmarshal(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
breaker:
  failure_threshold: 5
  success_threshold: 2
  timeout: 30s
`)

	loader, err := New(
		WithConfigName("config"),
		WithConfigPaths(dir),
		WithEnvPrefix("FUSETEST"),
	)
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, 5, loader.Get("breaker.failure_threshold"))

	var cfg struct {
		Breaker struct {
			FailureThreshold int           `mapstructure:"failure_threshold"`
			SuccessThreshold int           `mapstructure:"success_threshold"`
			Timeout          time.Duration `mapstructure:"timeout"`
		} `mapstructure:"breaker"`
	}
	require.NoError(t, loader.Unmarshal(&cfg))
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 2, cfg.Breaker.SuccessThreshold)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)
}

func TestUnmarshalKey(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
redis:
  addr: "localhost:6379"
  db: 1
`)

	loader := MustLoad(WithConfigPaths(dir), WithEnvPrefix("FUSETEST"))

	var redisCfg struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	}
	require.NoError(t, loader.UnmarshalKey("redis", &redisCfg))
	assert.Equal(t, "localhost:6379", redisCfg.Addr)
	assert.Equal(t, 1, redisCfg.DB)
}

func TestMissingFileIsTolerated(t *testing.T) {
	loader, err := New(WithConfigPaths(t.TempDir()), WithEnvPrefix("FUSETEST"))
	require.NoError(t, err)
	assert.NoError(t, loader.Load(context.Background()))
}

func TestValidator(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "breaker:\n  failure_threshold: 0\n")

	loader, err := New(
		WithConfigPaths(dir),
		WithEnvPrefix("FUSETEST"),
		WithValidator(func(l Loader) error {
			if l.Get("breaker.failure_threshold") == 0 {
				return ErrValidationFailed
			}
			return nil
		}),
	)
	require.NoError(t, err)
	assert.Error(t, loader.Load(context.Background()))
}

func TestWatchCancel(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "app:\n  name: fuse\n")

	loader := MustLoad(WithConfigPaths(dir), WithEnvPrefix("FUSETEST"))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := loader.Watch(ctx, "app.name")
	require.NoError(t, err)

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open, "channel should be closed after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel was not closed")
	}

	_, err = loader.Watch(context.Background(), "")
	assert.ErrorIs(t, err, ErrKeyEmpty)
}
