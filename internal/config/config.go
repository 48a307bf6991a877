package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const appDirName = "notegpt"

// Default values applied when the corresponding config.json field is absent.
const (
	DefaultEndpoint   = "https://api.openai.com/v1/chat/completions"
	DefaultModel      = "gpt-4o-mini"
	DefaultSystem     = "You are a terse expert editor. Refactor clearly, preserve meaning."
	DefaultChatFolder = "NoteGPT Chats"

	defaultTemperature = 0.3
	defaultMaxTokens   = 800
)

// Config is the per-install configuration, loaded once at startup and
// read-only afterwards. Pointer fields distinguish "absent" from zero.
type Config struct {
	APIKey       string            `json:"apiKey"`
	EndpointURL  string            `json:"endpoint"`
	Model        string            `json:"model"`
	Temperature  *float64          `json:"temperature"`
	MaxTokens    *int              `json:"max_tokens"`
	System       string            `json:"system"`
	ExtraHeaders map[string]string `json:"extraHeaders"`
	ChatFolder   string            `json:"chatFolder"`
	VaultPath    string            `json:"vault"`
}

// Load reads and parses the JSON config at path. A missing or malformed
// file yields the zero Config; Load never fails the caller.
func Load(path string) Config {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// DefaultPath returns the per-install config file location,
// e.g. ~/.config/notegpt/config.json on Linux.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appDirName, "config.json"), nil
}

func (c Config) Endpoint() string {
	if c.EndpointURL != "" {
		return c.EndpointURL
	}
	return DefaultEndpoint
}

func (c Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel
}

func (c Config) ResolvedTemperature() float64 {
	if c.Temperature != nil {
		return *c.Temperature
	}
	return defaultTemperature
}

func (c Config) ResolvedMaxTokens() int {
	if c.MaxTokens != nil {
		return *c.MaxTokens
	}
	return defaultMaxTokens
}

func (c Config) ResolvedSystem() string {
	if c.System != "" {
		return c.System
	}
	return DefaultSystem
}

func (c Config) ResolvedChatFolder() string {
	if c.ChatFolder != "" {
		return c.ChatFolder
	}
	return DefaultChatFolder
}
