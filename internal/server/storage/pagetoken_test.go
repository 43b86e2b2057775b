package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"empty", "", 0},
		{"first page", "page_0", 0},
		{"later page", "page_7", 7},
		{"missing prefix", "7", 0},
		{"bare prefix", "page_", 0},
		{"non numeric", "page_abc", 0},
		{"negative", "page_-3", 0},
		{"wrong prefix", "pg_2", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePageToken(tt.token))
		})
	}
}

func TestNextPageToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		batchLen int
		pageSize int
		want     string
	}{
		{"full first page", "", 10, 10, "page_1"},
		{"full later page", "page_2", 10, 10, "page_3"},
		{"short batch ends", "page_2", 3, 10, ""},
		{"empty batch ends", "page_1", 0, 10, ""},
		{"bad token counts from zero", "garbage", 10, 10, "page_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPageToken(tt.token, tt.batchLen, tt.pageSize))
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name           string
		page, size, n  int
		wantLo, wantHi int
	}{
		{"first page", 0, 2, 5, 0, 2},
		{"middle page", 1, 2, 5, 2, 4},
		{"trailing partial page", 2, 2, 5, 4, 5},
		{"past the end", 3, 2, 5, 5, 5},
		{"zero size", 0, 0, 5, 0, 0},
		{"negative size", 0, -1, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := pageBounds(tt.page, tt.size, tt.n)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}
