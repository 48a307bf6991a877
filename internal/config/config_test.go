package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "config.json"))

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint())
	assert.Equal(t, DefaultModel, cfg.ResolvedModel())
	assert.Equal(t, 0.3, cfg.ResolvedTemperature())
	assert.Equal(t, 800, cfg.ResolvedMaxTokens())
	assert.Equal(t, DefaultSystem, cfg.ResolvedSystem())
	assert.Equal(t, DefaultChatFolder, cfg.ResolvedChatFolder())
}

func TestLoad_MalformedFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte("{not json"), 0644)
	assert.NoError(t, err)

	cfg := Load(path)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint())
}

func TestLoad_ReadsAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
		"apiKey": "sk-test",
		"endpoint": "https://example.test/v1/chat",
		"model": "gpt-test",
		"temperature": 0.7,
		"max_tokens": 123,
		"system": "Be brief.",
		"extraHeaders": {"X-Org": "acme"},
		"chatFolder": "My Chats",
		"vault": "/tmp/vault"
	}`
	err := os.WriteFile(path, []byte(raw), 0644)
	assert.NoError(t, err)

	cfg := Load(path)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "https://example.test/v1/chat", cfg.Endpoint())
	assert.Equal(t, "gpt-test", cfg.ResolvedModel())
	assert.Equal(t, 0.7, cfg.ResolvedTemperature())
	assert.Equal(t, 123, cfg.ResolvedMaxTokens())
	assert.Equal(t, "Be brief.", cfg.ResolvedSystem())
	assert.Equal(t, map[string]string{"X-Org": "acme"}, cfg.ExtraHeaders)
	assert.Equal(t, "My Chats", cfg.ResolvedChatFolder())
	assert.Equal(t, "/tmp/vault", cfg.VaultPath)
}

func TestLoad_ZeroTemperatureIsRespected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"temperature": 0, "max_tokens": 0}`), 0644)
	assert.NoError(t, err)

	cfg := Load(path)
	assert.Equal(t, 0.0, cfg.ResolvedTemperature())
	assert.Equal(t, 0, cfg.ResolvedMaxTokens())
}
