// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerlog/innerlog-tui/internal/save"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRecordAndList(t *testing.T) {
	a := openTestArchive(t)

	first, err := a.Record("entry", "A rainy Tuesday", "/journal/journal_1.md")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = a.Record("transcript", "Evening chat", "/journal/transcript_1.txt")
	require.NoError(t, err)

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	count, err := a.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecord_UntitledFallback(t *testing.T) {
	a := openTestArchive(t)

	e, err := a.Record("entry", "   ", "/journal/x.md")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", e.Title)
}

func TestClosedArchive(t *testing.T) {
	a := openTestArchive(t)
	require.NoError(t, a.Close())

	_, err := a.Record("entry", "t", "loc")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = a.List()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWrapSaver_RecordsSuccessfulSaves(t *testing.T) {
	a := openTestArchive(t)
	inner := save.NewFileSaver(t.TempDir())
	saver := WrapSaver(inner, a)

	loc, err := saver.Save(save.KindEntry, "# A rainy Tuesday\n\nIt poured all day.")
	require.NoError(t, err)
	assert.NotEmpty(t, loc)

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry", entries[0].Kind)
	assert.Equal(t, "A rainy Tuesday", entries[0].Title)
	assert.Equal(t, loc, entries[0].Location)
}

func TestWrapSaver_FailedSaveNotRecorded(t *testing.T) {
	a := openTestArchive(t)
	inner := save.NewFileSaver(t.TempDir())
	saver := WrapSaver(inner, a)

	_, err := saver.Save(save.KindEntry, "   ")
	require.Error(t, err)

	count, err := a.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTitleFrom(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"# Heading\n\nbody", "Heading"},
		{"\n\nplain first line\nsecond", "plain first line"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, titleFrom(tt.content))
	}
}
