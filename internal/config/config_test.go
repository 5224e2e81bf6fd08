package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Niloux/chat-module/internal/llm"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "deepseek.db", cfg.DBPath)
	require.Equal(t, llm.DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, llm.ModelChat, cfg.Model)
	require.Equal(t, "default_user", cfg.Username)
}

func TestLoadEnvAPIKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.yaml")
	contents := "db_path: /tmp/other.db\nmodel: deepseek-reasoner\nusername: alice\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/other.db", cfg.DBPath)
	require.Equal(t, llm.ModelReasoner, cfg.Model)
	require.Equal(t, "alice", cfg.Username)
	// Unset keys keep their defaults.
	require.Equal(t, llm.DefaultBaseURL, cfg.BaseURL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
