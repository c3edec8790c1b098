// innerlog - A journaling chat companion for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/innerlog/innerlog-tui/internal/ai"
	"github.com/innerlog/innerlog-tui/internal/archive"
	"github.com/innerlog/innerlog-tui/internal/cli"
	"github.com/innerlog/innerlog-tui/internal/config"
	"github.com/innerlog/innerlog-tui/internal/conversation"
	"github.com/innerlog/innerlog-tui/internal/save"
	"github.com/innerlog/innerlog-tui/internal/speech"
	"github.com/innerlog/innerlog-tui/internal/ui/chat"
	"github.com/innerlog/innerlog-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	plain := flag.Bool("plain", false, "use the plain-terminal REPL instead of the full-screen view")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("innerlog %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(plain bool) error {
	cfg := config.Global()
	settings := cfg.Snapshot()

	saver, cleanup, err := buildSaver(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctrl := conversation.New(conversation.Options{
		Client:   ai.NewHTTPClient(),
		Engine:   speech.NewNoopEngine(),
		Settings: func() config.Settings { return config.Global().Snapshot() },
	})
	ctrl.ApplySettings(settings)

	watcher := startWatcher()
	if watcher != nil {
		defer watcher.Close()
	}

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runREPL(ctrl, saver, watcher)
	}
	return runTUI(ctrl, saver, watcher)
}

// buildSaver assembles the journal-directory saver, layered with encryption
// and the artifact archive when configured. The archive is best-effort: a
// broken catalog must not block journaling.
func buildSaver(cfg *config.Config) (save.Saver, func(), error) {
	dir := cfg.Journal.OutputDir
	if dir == "" {
		d, err := config.DefaultJournalDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve journal directory: %w", err)
		}
		dir = d
	}

	fileSaver := save.NewFileSaver(dir)
	if cfg.Journal.Encrypt {
		fileSaver = fileSaver.WithEncryption(cfg.Journal.Passphrase)
	}

	configDir, err := config.ConfigDir()
	if err != nil {
		return fileSaver, func() {}, nil
	}
	cat, err := archive.Open(filepath.Join(configDir, "archive.db"))
	if err != nil {
		return fileSaver, func() {}, nil
	}
	return archive.WrapSaver(fileSaver, cat), func() { cat.Close() }, nil
}

// startWatcher wires live settings reload. Failure is non-fatal: the
// session simply runs with the startup configuration.
func startWatcher() *config.Watcher {
	path, err := config.ConfigPath()
	if err != nil {
		return nil
	}
	w, err := config.NewWatcher(path, config.DefaultDebounce)
	if err != nil {
		return nil
	}
	return w
}

func runTUI(ctrl *conversation.Controller, saver save.Saver, watcher *config.Watcher) error {
	var changes <-chan config.Settings
	if watcher != nil {
		changes = watcher.Changes()
	}

	m := chat.New(styles.NewTheme(), ctrl, saver, changes)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func runREPL(ctrl *conversation.Controller, saver save.Saver, watcher *config.Watcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watcher != nil {
		go ctrl.WatchSettings(ctx, watcher.Changes())
	}

	return cli.NewSession(ctrl, saver).Run(ctx)
}
