package clog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"nil config uses defaults", nil, false},
		{"console format", &Config{Level: "info", Format: "console", Output: "stdout"}, false},
		{"json format", &Config{Level: "debug", Format: "json", Output: "stderr"}, false},
		{"invalid level", &Config{Level: "verbose"}, true},
		{"invalid format", &Config{Format: "xml"}, true},
		{"invalid output", &Config{Output: "file"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestSetLevel(t *testing.T) {
	logger, err := New(&Config{Level: "info"})
	require.NoError(t, err)

	assert.NoError(t, logger.SetLevel("debug"))
	assert.NoError(t, logger.SetLevel("error"))
	assert.Error(t, logger.SetLevel("trace"))
}

func TestDerivedLoggers(t *testing.T) {
	logger, err := New(&Config{Level: "debug", Namespace: "fuse"})
	require.NoError(t, err)

	child := logger.WithNamespace("breaker").With(String("id", "payment"))
	require.NotNil(t, child)

	// 子 Logger 共享级别变量
	require.NoError(t, child.SetLevel("warn"))

	// 所有方法都不应 panic
	child.Debug("debug msg", Int("n", 1))
	child.Info("info msg", Bool("ok", true))
	child.Warn("warn msg", Error(nil))
	child.Error("error msg", Error(assert.AnError))
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Info("swallowed", String("k", "v"))
	assert.Equal(t, logger, logger.With(String("k", "v")))
	assert.NoError(t, logger.SetLevel("anything"))
}
