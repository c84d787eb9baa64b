package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/config"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	path := filepath.Join(t.TempDir(), "site.log")
	cfg := &config.Config{
		ServiceName: "salon-site",
		Environment: "test",
		LogLevel:    "INFO",
		LogFormat:   "json",
		LogFilePath: path,
	}

	log, err := New(cfg)
	require.NoError(t, err)
	log.Info().Msg("configured")

	boot := GetLogger()
	boot.Warn().Msg("bootstrap")
	assert.Equal(t, zerolog.InfoLevel, boot.GetLevel())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"salon-site"`)
	assert.Contains(t, string(data), `"message":"configured"`)
	assert.Contains(t, string(data), `"message":"bootstrap"`)
}

func TestNewRejectsBadSettings(t *testing.T) {
	_, err := New(&config.Config{LogLevel: "loud", LogFormat: "json"})
	assert.Error(t, err)

	_, err = New(&config.Config{LogLevel: "info", LogFormat: "xml"})
	assert.Error(t, err)
}
