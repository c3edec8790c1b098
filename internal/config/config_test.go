// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLoadFromPath_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("default provider should be openai, got %q", cfg.AI.Provider)
	}
	if cfg.AI.FormatInstructions == "" {
		t.Error("default format instructions should not be empty")
	}
	if cfg.Speech.TTSProvider != "system" {
		t.Errorf("default TTS provider should be system, got %q", cfg.Speech.TTSProvider)
	}
}

func TestLoadFromPath_ReadsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[ai]
provider = "openrouter"
model = "anthropic/claude-3.5-sonnet"
api_key = "sk-test"

[speech]
tts_provider = "cloud"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.AI.Provider != "openrouter" {
		t.Errorf("provider = %q, want openrouter", cfg.AI.Provider)
	}
	if cfg.AI.APIKey != "sk-test" {
		t.Errorf("api key = %q, want sk-test", cfg.AI.APIKey)
	}
	if cfg.Speech.TTSProvider != "cloud" {
		t.Errorf("tts provider = %q, want cloud", cfg.Speech.TTSProvider)
	}
}

func TestLoadFromPath_RejectsUnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ai]\nprovider = \"carrier-pigeon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Error("unknown provider should fail validation")
	}
}

func TestSnapshot_FlattensSections(t *testing.T) {
	cfg := Default()
	cfg.AI.APIKey = "key"
	cfg.AI.Context = "ctx"
	cfg.Speech.TTSProvider = "cloud"

	snap := cfg.Snapshot()
	if snap.APIKey != "key" || snap.AIContext != "ctx" || snap.TTSProvider != "cloud" {
		t.Errorf("snapshot did not carry fields through: %+v", snap)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INNERLOG_API_KEY", "env-key")
	t.Setenv("INNERLOG_PROVIDER", "ollama")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.AI.APIKey != "env-key" {
		t.Errorf("api key = %q, want env override", cfg.AI.APIKey)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("provider = %q, want ollama", cfg.AI.Provider)
	}
}

func TestGlobal_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestWatcher_EmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ai]\nprovider = \"openai\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[ai]\nprovider = \"ollama\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-w.Changes():
		if snap.AIProvider != "ollama" {
			t.Errorf("snapshot provider = %q, want ollama", snap.AIProvider)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for settings change")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ai]\nprovider = \"openai\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes():
		t.Error("unrelated file should not trigger a settings change")
	case <-time.After(300 * time.Millisecond):
	}
}
