// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package save persists accepted journal entries and transcripts.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/innerlog/innerlog-tui/internal/util"
)

// =============================================================================
// SAVER INTERFACE
// =============================================================================

// Kind distinguishes what is being saved.
type Kind int

const (
	// KindEntry is a formatted journal entry (Markdown).
	KindEntry Kind = iota
	// KindTranscript is a raw conversation transcript (plain text).
	KindTranscript
)

// FileExtension returns the extension for the kind.
func (k Kind) FileExtension() string {
	if k == KindTranscript {
		return ".txt"
	}
	return ".md"
}

// filePrefix returns the filename prefix for the kind.
func (k Kind) filePrefix() string {
	if k == KindTranscript {
		return "transcript"
	}
	return "journal"
}

// Saver is the external save collaborator: it accepts formatted text and
// reports back where it landed. The storage medium is its own concern.
type Saver interface {
	Save(kind Kind, content string) (location string, err error)
}

// =============================================================================
// FILE SAVER
// =============================================================================

// FileSaver writes entries as timestamped files under a directory,
// optionally encrypting them at rest.
type FileSaver struct {
	// OutputDir is where files are written.
	OutputDir string

	// Encrypt enables at-rest encryption with the passphrase below.
	Encrypt    bool
	Passphrase string
}

// NewFileSaver creates a saver writing plaintext files into dir.
func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{OutputDir: dir}
}

// WithEncryption enables at-rest encryption.
func (s *FileSaver) WithEncryption(passphrase string) *FileSaver {
	s.Encrypt = true
	s.Passphrase = passphrase
	return s
}

// Save writes the content to a new timestamped file and returns its path.
func (s *FileSaver) Save(kind Kind, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("nothing to save")
	}

	if err := os.MkdirAll(s.OutputDir, 0700); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	data := content
	ext := kind.FileExtension()
	if s.Encrypt {
		sealed, err := EncryptText(content, s.Passphrase)
		if err != nil {
			return "", fmt.Errorf("encrypt entry: %w", err)
		}
		data = sealed
		ext += ".enc"
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s", kind.filePrefix(), timestamp, ext)
	path := filepath.Join(s.OutputDir, filename)

	// Never clobber an existing entry from the same second.
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		filename = fmt.Sprintf("%s_%s_%d%s", kind.filePrefix(), timestamp, i, ext)
		path = filepath.Join(s.OutputDir, filename)
	}

	if err := util.AtomicWriteFile(path, []byte(data), 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}
