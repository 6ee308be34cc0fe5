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

package manifest

import (
	"fmt"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 📚 Manifest describes one DPB run: where to read, where to write and
// which groups of rules to apply.
type Manifest struct {
	SourceDir    string        // Source root, relative to the working directory unless absolute
	OutputDir    string        // Output root, relative to the working directory unless absolute
	ConfigGroups []ConfigGroup // Applied in order
}

// 📦 ConfigGroup bundles file selection, structured edits and keep conditions.
type ConfigGroup struct {
	Files                 []string      // Glob patterns, expanded against the source root
	ReplaceContents       []Replacement // Applied in order to every selected file
	KeepContentConditions []string      // Keeps a PDBMARK block when any of these occurs on its marker line
	KeepFileConditions    []string      // Keeps a PDBMARK_FILE file when its keyword is listed here
}

// 🔄 Replacement is a structured-document edit. It is either an
// [XMLContent] or a [JSONContent].
type Replacement interface {
	// Selector returns the tag or key name the edit targets.
	Selector() string
	// Value returns the replacement text.
	Value() string

	replacement()
}

// XMLContent replaces the value of every element named TagName.
type XMLContent struct {
	TagName        string
	ReplaceContent string
}

func (x XMLContent) Selector() string { return x.TagName }
func (x XMLContent) Value() string    { return x.ReplaceContent }
func (XMLContent) replacement()       {}

// JSONContent replaces the value of every object key named KeyName.
type JSONContent struct {
	KeyName        string
	ReplaceContent string
}

func (j JSONContent) Selector() string { return j.KeyName }
func (j JSONContent) Value() string    { return j.ReplaceContent }
func (JSONContent) replacement()       {}

// NewXMLContent creates an XML tag replacement.
func NewXMLContent(tagName, value string) Replacement {
	return XMLContent{TagName: tagName, ReplaceContent: value}
}

// NewJSONContent creates a JSON key replacement.
func NewJSONContent(keyName, value string) Replacement {
	return JSONContent{KeyName: keyName, ReplaceContent: value}
}

// newReplacement resolves the two optional variants a manifest document
// carries into exactly one [Replacement].
func newReplacement(xml *XMLContent, json *JSONContent) (Replacement, error) {
	switch {
	case xml != nil && json != nil:
		return nil, errors.New("replacement has both xml and json content")
	case xml != nil:
		return *xml, nil
	case json != nil:
		return *json, nil
	default:
		return nil, errors.New("replacement has neither xml nor json content")
	}
}

// 🔍 Validate checks the manifest is complete enough to run.
func (m *Manifest) Validate() error {
	if m.SourceDir == "" {
		return errors.Errorf("source dir is required")
	}
	if m.OutputDir == "" {
		return errors.Errorf("output dir is required")
	}

	m.SourceDir = filepath.Clean(m.SourceDir)
	m.OutputDir = filepath.Clean(m.OutputDir)

	for i, group := range m.ConfigGroups {
		for j, r := range group.ReplaceContents {
			if r == nil {
				return errors.Errorf("config group %d: replacement %d is empty", i+1, j+1)
			}
		}
	}

	return nil
}

// 📝 String returns a short description of the manifest
func (m *Manifest) String() string {
	return fmt.Sprintf("%s -> %s (%d config groups)", m.SourceDir, m.OutputDir, len(m.ConfigGroups))
}
