// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package marker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walteh/dpb/pkg/marker"
)

func TestFilterContent(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		conditions  []string
		want        []string
		wantRemoved []marker.Block
	}{
		{
			name:       "drops_unmatched_block",
			lines:      []string{"A", "PDBMARK prod", "B", "PDBMARK_END", "C"},
			conditions: []string{"dev"},
			want:       []string{"A", "C"},
			wantRemoved: []marker.Block{
				{Line: 2, Marker: "PDBMARK prod", Lines: 3},
			},
		},
		{
			name:       "keeps_matched_block_with_markers",
			lines:      []string{"A", "PDBMARK prod", "B", "PDBMARK_END", "C"},
			conditions: []string{"prod"},
			want:       []string{"A", "PDBMARK prod", "B", "PDBMARK_END", "C"},
		},
		{
			name:       "unterminated_block_drops_to_end",
			lines:      []string{"A", "PDBMARK x", "B"},
			conditions: []string{"y"},
			want:       []string{"A"},
			wantRemoved: []marker.Block{
				{Line: 2, Marker: "PDBMARK x", Lines: 2},
			},
		},
		{
			name:       "any_condition_on_marker_line",
			lines:      []string{"<!-- PDBMARK staging,prod -->", "B", "<!-- PDBMARK_END -->"},
			conditions: []string{"dev", "prod"},
			want:       []string{"<!-- PDBMARK staging,prod -->", "B", "<!-- PDBMARK_END -->"},
		},
		{
			name:       "no_conditions_drops_every_block",
			lines:      []string{"// PDBMARK a", "x", "// PDBMARK_END", "y", "// PDBMARK b", "z", "// PDBMARK_END"},
			conditions: nil,
			want:       []string{"y"},
			wantRemoved: []marker.Block{
				{Line: 1, Marker: "// PDBMARK a", Lines: 3},
				{Line: 5, Marker: "// PDBMARK b", Lines: 3},
			},
		},
		{
			name:       "begin_marker_inside_dropped_block_is_ignored",
			lines:      []string{"PDBMARK a", "PDBMARK b", "x", "PDBMARK_END", "y"},
			conditions: []string{"b"},
			want:       []string{"y"},
			wantRemoved: []marker.Block{
				{Line: 1, Marker: "PDBMARK a", Lines: 4},
			},
		},
		{
			name:       "stray_end_marker_is_kept",
			lines:      []string{"A", "PDBMARK_END", "PDBMARK q", "B", "PDBMARK_END"},
			conditions: []string{"z"},
			want:       []string{"A", "PDBMARK_END"},
			wantRemoved: []marker.Block{
				{Line: 3, Marker: "PDBMARK q", Lines: 3},
			},
		},
		{
			name:       "trailing_separator_preserved",
			lines:      []string{"A", "PDBMARK p", "B", "PDBMARK_END", ""},
			conditions: nil,
			want:       []string{"A", ""},
			wantRemoved: []marker.Block{
				{Line: 2, Marker: "PDBMARK p", Lines: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := marker.FilterContent(strings.Join(tt.lines, "\n"), tt.conditions, "\n")
			assert.Equal(t, strings.Join(tt.want, "\n"), got.Content)
			assert.Equal(t, tt.wantRemoved, got.Removed)
		})
	}
}

func TestFilterContentWithoutMarkersIsUnchanged(t *testing.T) {
	for _, content := range []string{
		"",
		"plain text\n",
		"PDBMARK_END only\r\nand PDBMARK_FILE x\r\n",
		"PDBMARKnospace\n",
	} {
		got := marker.FilterContent(content, []string{"a"}, "\n")
		assert.Equal(t, content, got.Content)
		assert.Empty(t, got.Removed)
	}
}

func TestFilterContentSeparator(t *testing.T) {
	content := "A\r\nPDBMARK x\r\nB\r\nPDBMARK_END\r\nC"
	got := marker.FilterContent(content, nil, "\r\n")
	assert.Equal(t, "A\r\nC", got.Content)
}

func TestKeepFile(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		conditions  []string
		wantKeyword string
		wantKeep    bool
	}{
		{
			name:       "no_marker",
			content:    "hello",
			conditions: nil,
			wantKeep:   true,
		},
		{
			name:        "keyword_listed",
			content:     "// PDBMARK_FILE secretA\ncode",
			conditions:  []string{"secretA"},
			wantKeyword: "secretA",
			wantKeep:    true,
		},
		{
			name:        "keyword_not_listed",
			content:     "// PDBMARK_FILE secretA\ncode",
			conditions:  []string{"secretB"},
			wantKeyword: "secretA",
			wantKeep:    false,
		},
		{
			name:        "keyword_is_exact",
			content:     "PDBMARK_FILE secretA",
			conditions:  []string{"secret"},
			wantKeyword: "secretA",
			wantKeep:    false,
		},
		{
			name:        "first_marker_wins",
			content:     "PDBMARK_FILE one,two\nPDBMARK_FILE two",
			conditions:  []string{"two"},
			wantKeyword: "one",
			wantKeep:    false,
		},
		{
			name:        "keyword_ends_at_carriage_return",
			content:     "<!-- PDBMARK_FILE dev\r\n-->",
			conditions:  []string{"dev"},
			wantKeyword: "dev",
			wantKeep:    true,
		},
		{
			name:        "empty_keyword",
			content:     "PDBMARK_FILE \nbody",
			conditions:  []string{"x"},
			wantKeyword: "",
			wantKeep:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyword, keep := marker.KeepFile(tt.content, tt.conditions)
			assert.Equal(t, tt.wantKeyword, keyword)
			assert.Equal(t, tt.wantKeep, keep)
		})
	}
}

func TestFileKeyword(t *testing.T) {
	kw, ok := marker.FileKeyword("x PDBMARK_FILE alpha beta")
	assert.True(t, ok)
	assert.Equal(t, "alpha", kw)

	_, ok = marker.FileKeyword("PDBMARK_FILEalpha")
	assert.False(t, ok)
}
