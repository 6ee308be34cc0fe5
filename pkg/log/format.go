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

package log

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/dpb/pkg/pipeline"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 10 // Width for status text
)

// 🎯 FormatFileResult formats one file outcome for display. The path is
// shown relative to root when possible.
func FormatFileResult(r pipeline.FileResult, root string) string {
	var prefix string
	switch r.Status {
	case pipeline.StatusSaved:
		if r.Changes > 0 || r.BlocksRemoved > 0 {
			prefix = color.YellowString("⟳")
		} else {
			prefix = color.GreenString("✓")
		}
	case pipeline.StatusRemoved:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	path := r.Source
	if rel, err := filepath.Rel(root, r.Source); err == nil {
		path = rel
	}

	line := fmt.Sprintf("%s%s %-*s %-*s",
		strings.Repeat(" ", fileIndent),
		prefix,
		nameWidth, path,
		statusWidth, r.Status,
	)

	if details := fileDetails(r); details != "" {
		line += " " + color.HiBlackString(details)
	}

	return strings.TrimRight(line, " ")
}

func fileDetails(r pipeline.FileResult) string {
	var parts []string
	if r.Changes > 0 {
		parts = append(parts, plural(r.Changes, "value changed", "values changed"))
	}
	if r.BlocksRemoved > 0 {
		parts = append(parts, plural(r.BlocksRemoved, "block removed", "blocks removed"))
	}
	if r.FormatErrors > 0 {
		parts = append(parts, plural(r.FormatErrors, "format error", "format errors"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
