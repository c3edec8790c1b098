// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive catalogs saved journal artifacts in SQLite.
package archive

import (
	"strings"

	"github.com/innerlog/innerlog-tui/internal/save"
)

// recordingSaver decorates a Saver so every successful save is cataloged.
type recordingSaver struct {
	inner   save.Saver
	archive *Archive
}

// WrapSaver returns a Saver that records each successful save in the
// archive. Catalog failures are swallowed: the artifact itself was written,
// which is what the user cares about.
func WrapSaver(inner save.Saver, a *Archive) save.Saver {
	return &recordingSaver{inner: inner, archive: a}
}

func (s *recordingSaver) Save(kind save.Kind, content string) (string, error) {
	location, err := s.inner.Save(kind, content)
	if err != nil {
		return "", err
	}

	kindName := "entry"
	if kind == save.KindTranscript {
		kindName = "transcript"
	}
	_, _ = s.archive.Record(kindName, titleFrom(content), location)
	return location, nil
}

// titleFrom derives a catalog title from the first non-blank content line.
func titleFrom(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			runes := []rune(line)
			if len(runes) > 80 {
				return string(runes[:77]) + "..."
			}
			return line
		}
	}
	return ""
}
