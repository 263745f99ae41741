package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippets/internal/config"
)

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("EXAMPLE_SERVICE_PORT", "9100")
	t.Setenv("EXAMPLE_SERVICE_PREFIX", "/from-env")

	v := config.NewViper()
	cmd := &cobra.Command{Use: "test"}
	bindFlags(cmd, v)
	require.NoError(t, cmd.PersistentFlags().Set("port", "9200"))
	require.NoError(t, cmd.PersistentFlags().Set("ssl", "1"))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Port)
	assert.True(t, cfg.SSL)
	// Unset flags fall through to the environment.
	assert.Equal(t, "/from-env", cfg.Prefix)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, &config.Config{LogLevel: "warn", LogFormat: "json"})
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestRootCommandHasServe(t *testing.T) {
	root := newRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.InheritedFlags().Lookup("db-url"))
}
