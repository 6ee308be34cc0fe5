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

// Package marker implements the PDBMARK text markers that drop whole
// files or line ranges from a file's content.
//
//	PDBMARK_FILE release      keep this file only when "release" is a keep-file condition
//	PDBMARK prod              drop the following lines unless a keep-content condition occurs on this line
//	PDBMARK_END               end of the dropped range
package marker

import (
	"runtime"
	"slices"
	"strings"
)

// Marker syntax. Matching is case-sensitive substring containment.
const (
	BeginMarkPrefix = "PDBMARK "
	EndMark         = "PDBMARK_END"
	FileMarkPrefix  = "PDBMARK_FILE "
)

// keywordTerminators end a PDBMARK_FILE keyword.
const keywordTerminators = "\r\n ,"

// LineSeparator returns the platform line separator used to split and
// rejoin content.
func LineSeparator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// 🔍 FileKeyword extracts the keyword of the first PDBMARK_FILE marker in
// content. The keyword may be empty.
func FileKeyword(content string) (string, bool) {
	idx := strings.Index(content, FileMarkPrefix)
	if idx < 0 {
		return "", false
	}

	rest := content[idx+len(FileMarkPrefix):]
	if end := strings.IndexAny(rest, keywordTerminators); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

// KeepFile reports whether a file with content survives the keep-file
// conditions. Files without a PDBMARK_FILE marker are always kept.
func KeepFile(content string, conditions []string) (keyword string, keep bool) {
	keyword, found := FileKeyword(content)
	if !found {
		return "", true
	}
	return keyword, slices.Contains(conditions, keyword)
}

// 📦 Block is a dropped PDBMARK line range.
type Block struct {
	Line   int    // 1-based line number of the begin marker
	Marker string // The begin marker line
	Lines  int    // Number of lines dropped, markers included
}

// Result is the output of [FilterContent].
type Result struct {
	Content string
	Removed []Block
}

// 🧹 FilterContent drops every PDBMARK block whose begin line contains
// none of the keep conditions. A dropped block runs up to and including
// the next PDBMARK_END line, or to the end of content when there is none.
// Kept blocks are emitted unchanged, markers included.
func FilterContent(content string, conditions []string, sep string) Result {
	if !strings.Contains(content, BeginMarkPrefix) {
		return Result{Content: content}
	}

	lines := strings.Split(content, sep)
	kept := make([]string, 0, len(lines))

	var (
		removed []Block
		current *Block
	)

	for i, line := range lines {
		if current != nil {
			current.Lines++
			if strings.Contains(line, EndMark) {
				removed = append(removed, *current)
				current = nil
			}
			continue
		}

		if strings.Contains(line, BeginMarkPrefix) && !matchesAny(line, conditions) {
			current = &Block{Line: i + 1, Marker: line, Lines: 1}
			continue
		}

		kept = append(kept, line)
	}

	// unterminated, everything to the end is gone
	if current != nil {
		removed = append(removed, *current)
	}

	return Result{
		Content: strings.Join(kept, sep),
		Removed: removed,
	}
}

func matchesAny(line string, conditions []string) bool {
	for _, c := range conditions {
		if strings.Contains(line, c) {
			return true
		}
	}
	return false
}
