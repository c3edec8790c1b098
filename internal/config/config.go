// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for innerlog.
//
// Settings live in a TOML file with sensible defaults and environment
// variable overrides.
//
// Configuration file location (in order of precedence):
//   - ~/.innerlog/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete innerlog configuration.
type Config struct {
	Version string `toml:"version"`

	// AI provider configuration
	AI AIConfig `toml:"ai"`

	// Speech configuration
	Speech SpeechConfig `toml:"speech"`

	// Journal output configuration
	Journal JournalConfig `toml:"journal"`
}

// AIConfig contains AI provider configuration.
type AIConfig struct {
	// Provider selects the chat backend: "openai", "openrouter", or "ollama".
	Provider string `toml:"provider"`
	// Model is the model identifier sent to the provider.
	Model string `toml:"model"`
	// APIKey authenticates against the provider.
	APIKey string `toml:"api_key"`
	// Context is the system prompt prepended to every conversation.
	Context string `toml:"context"`
	// FormatInstructions is prepended to the transcript when a journal
	// entry is generated from the conversation.
	FormatInstructions string `toml:"format_instructions"`
}

// SpeechConfig contains speech input/output configuration.
type SpeechConfig struct {
	// TTSProvider selects the voice used for spoken replies.
	TTSProvider string `toml:"tts_provider"`
}

// JournalConfig contains journal save configuration.
type JournalConfig struct {
	// OutputDir is where accepted entries and transcripts are written.
	// Default: ~/.innerlog/journal
	OutputDir string `toml:"output_dir"`
	// Encrypt enables at-rest encryption of saved entries.
	Encrypt bool `toml:"encrypt"`
	// Passphrase derives the encryption key when Encrypt is set.
	// Prefer the INNERLOG_PASSPHRASE environment variable over this field.
	Passphrase string `toml:"passphrase"`
}

// Settings is the flat read-only snapshot the conversation core consumes.
// The controller reads a fresh snapshot at the start of each operation and
// never writes back.
type Settings struct {
	APIKey             string
	AIProvider         string
	AIModel            string
	AIContext          string
	FormatInstructions string
	TTSProvider        string
}

// Snapshot returns the flat settings view of the configuration.
func (c *Config) Snapshot() Settings {
	return Settings{
		APIKey:             c.AI.APIKey,
		AIProvider:         c.AI.Provider,
		AIModel:            c.AI.Model,
		AIContext:          c.AI.Context,
		FormatInstructions: c.AI.FormatInstructions,
		TTSProvider:        c.Speech.TTSProvider,
	}
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultFormatInstructions is the fallback prompt for turning a
// conversation into a journal entry.
const DefaultFormatInstructions = "Please rewrite the following conversation " +
	"as a first-person journal entry in Markdown. Keep the writer's voice, " +
	"keep every event they mentioned, and do not invent details.\n\n"

// Default returns a configuration populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		AI: AIConfig{
			Provider:           "openai",
			Model:              "gpt-4o-mini",
			Context:            "You are a warm, attentive journaling companion. Ask gentle follow-up questions and help the user reflect on their day.",
			FormatInstructions: DefaultFormatInstructions,
		},
		Speech: SpeechConfig{
			TTSProvider: "system",
		},
		Journal: JournalConfig{
			OutputDir: "",
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the innerlog configuration directory (~/.innerlog).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".innerlog"), nil
}

// ConfigPath returns the TOML configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultJournalDir returns the default directory for saved entries.
func DefaultJournalDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration from disk, falling back to defaults when no
// file exists. Environment overrides are applied after the file is read.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit file path.
// A missing file is not an error; defaults are returned instead.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default path with owner-only
// permissions (the file may contain an API key).
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Write via temp file then rename so a watcher never sees a torn file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides overlays environment variables onto the configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INNERLOG_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("INNERLOG_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	if v := os.Getenv("INNERLOG_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("INNERLOG_JOURNAL_DIR"); v != "" {
		c.Journal.OutputDir = v
	}
	if v := os.Getenv("INNERLOG_PASSPHRASE"); v != "" {
		c.Journal.Passphrase = v
	}
}

// fillDefaults backfills fields that are empty after decoding.
func (c *Config) fillDefaults() {
	def := Default()
	if c.AI.Provider == "" {
		c.AI.Provider = def.AI.Provider
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.FormatInstructions == "" {
		c.AI.FormatInstructions = def.AI.FormatInstructions
	}
	if c.Speech.TTSProvider == "" {
		c.Speech.TTSProvider = def.Speech.TTSProvider
	}
	if c.Journal.OutputDir == "" {
		if dir, err := DefaultJournalDir(); err == nil {
			c.Journal.OutputDir = dir
		}
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "openai", "openrouter", "ollama":
	default:
		return fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}
	if c.Journal.Encrypt && c.Journal.Passphrase == "" {
		return fmt.Errorf("journal encryption enabled but no passphrase configured")
	}
	return nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first use.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal re-reads the configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears global state so tests start fresh.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
