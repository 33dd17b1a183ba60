package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HISTORY_STORE", "")
	t.Setenv("AGENT_ID", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, DefaultAgentID, cfg.AgentID)
	assert.Equal(t, "gemini-2.5-flash-image-preview", cfg.AgentModel)
	assert.False(t, cfg.UseDatabase())
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HISTORY_STORE", "")
	// godotenv never overrides variables that are already set, so start clean.
	os.Unsetenv("PORT")
	os.Unsetenv("HISTORY_STORE")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nHISTORY_STORE=db\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseDatabase())
}
