package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileRecord_PlaceholderPages(t *testing.T) {
	rec := NewFileRecord("id-1", "report.pdf", []byte("%PDF"), 3)

	require.Len(t, rec.Pages, 3)
	for i, p := range rec.Pages {
		assert.Equal(t, i+1, p.PageNumber)
		assert.Empty(t, p.Thumb)
	}
	assert.Equal(t, 3, rec.TotalPages)
	assert.False(t, rec.Rendering)
	assert.False(t, rec.MergeSelected)
}

func TestPageIndices_CurrentOrder(t *testing.T) {
	rec := NewFileRecord("id-1", "report.pdf", nil, 3)
	rec.Pages = []PageRef{{PageNumber: 2}, {PageNumber: 1}, {PageNumber: 3}}

	indices, err := rec.PageIndices()

	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, indices)
}

func TestPageIndices_NaturalOrderFallback(t *testing.T) {
	rec := &FileRecord{ID: "id-1", TotalPages: 4}

	indices, err := rec.PageIndices()

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, indices)
}

func TestPageIndices_InvalidPageNumber(t *testing.T) {
	rec := NewFileRecord("id-1", "report.pdf", nil, 2)
	rec.Pages = []PageRef{{PageNumber: 0}, {PageNumber: 1}}

	_, err := rec.PageIndices()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPage))
}

func TestMovePage(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want []int
	}{
		{name: "forward", from: 0, to: 2, want: []int{2, 3, 1, 4}},
		{name: "backward", from: 3, to: 0, want: []int{4, 1, 2, 3}},
		{name: "adjacent", from: 1, to: 2, want: []int{1, 3, 2, 4}},
		{name: "same position is no-op", from: 2, to: 2, want: []int{1, 2, 3, 4}},
		{name: "out of bounds source is no-op", from: 9, to: 1, want: []int{1, 2, 3, 4}},
		{name: "negative destination is no-op", from: 1, to: -1, want: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewFileRecord("id-1", "report.pdf", nil, 4)

			moved := rec.MovePage(tt.from, tt.to)

			got := make([]int, len(moved))
			for i, p := range moved {
				got[i] = p.PageNumber
			}
			assert.Equal(t, tt.want, got)
			// Original sequence untouched until the caller applies the move.
			assert.Equal(t, 1, rec.Pages[0].PageNumber)
		})
	}
}

func TestMovePage_PreservesThumbs(t *testing.T) {
	rec := NewFileRecord("id-1", "report.pdf", nil, 2)
	rec.Pages[0].Thumb = "data:image/png;base64,AAAA"

	moved := rec.MovePage(0, 1)

	require.Len(t, moved, 2)
	assert.Equal(t, "data:image/png;base64,AAAA", moved[1].Thumb)
	assert.Equal(t, 1, moved[1].PageNumber)
}

func TestNextSelection(t *testing.T) {
	tests := []struct {
		name         string
		removedIndex int
		newLen       int
		want         int
	}{
		{name: "middle removal keeps position", removedIndex: 1, newLen: 3, want: 1},
		{name: "last removal selects new last", removedIndex: 3, newLen: 3, want: 2},
		{name: "empty list selects nothing", removedIndex: 0, newLen: 0, want: -1},
		{name: "first removal keeps first", removedIndex: 0, newLen: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSelection(tt.removedIndex, tt.newLen))
		})
	}
}

func TestRenderedPages(t *testing.T) {
	rec := NewFileRecord("id-1", "report.pdf", nil, 3)
	assert.Equal(t, 0, rec.RenderedPages())

	rec.Pages[0].Thumb = "data:image/png;base64,AAAA"
	rec.Pages[2].Thumb = "data:image/png;base64,BBBB"
	assert.Equal(t, 2, rec.RenderedPages())
}

func TestOutputNames(t *testing.T) {
	assert.Equal(t, "customized-scan.pdf", ExportName("scan.pdf"))
	assert.Equal(t, "original-scan.pdf", FallbackName("scan.pdf"))

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "merged-1714564800000.pdf", MergeName(ts))
}
