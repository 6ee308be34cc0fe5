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
	"bytes"
	"context"
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&JSONParser{})
}

// 🔧 JSONParser reads manifests in the original DPB JSON schema.
type JSONParser struct{}

type jsonManifest struct {
	SourceDir   string            `json:"SourceDir"`
	OutputDir   string            `json:"OutputDir"`
	ConfigGroup []jsonConfigGroup `json:"ConfigGroup"`
}

type jsonConfigGroup struct {
	Files                 []string             `json:"Files"`
	ReplaceContents       []jsonReplaceContent `json:"ReplaceContents"`
	KeepContentConditions []string             `json:"KeepContentConditions"`
	KeepFileConditions    []string             `json:"KeepFileConditions"`

	// DPB manifests in the wild carry these misspelled keys.
	LegacyKeepContentConditions []string `json:"KeepContentConiditions"`
	LegacyKeepFileConditions    []string `json:"KeepFileConiditions"`
}

type jsonReplaceContent struct {
	XmlContent *struct {
		TagName        string `json:"TagName"`
		ReplaceContent string `json:"ReplaceContent"`
	} `json:"XmlContent"`
	JsonContent *struct {
		KeyName        string `json:"KeyName"`
		ReplaceContent string `json:"ReplaceContent"`
	} `json:"JsonContent"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

// 📝 Parse decodes the manifest from JSON bytes
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Manifest, error) {
	var raw jsonManifest
	// unknown keys are ignored
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}

	m := &Manifest{
		SourceDir: raw.SourceDir,
		OutputDir: raw.OutputDir,
	}

	for i, g := range raw.ConfigGroup {
		group := ConfigGroup{
			Files:                 g.Files,
			KeepContentConditions: append(g.KeepContentConditions, g.LegacyKeepContentConditions...),
			KeepFileConditions:    append(g.KeepFileConditions, g.LegacyKeepFileConditions...),
		}

		for j, rc := range g.ReplaceContents {
			var (
				x  *XMLContent
				js *JSONContent
			)
			if rc.XmlContent != nil {
				x = &XMLContent{TagName: rc.XmlContent.TagName, ReplaceContent: rc.XmlContent.ReplaceContent}
			}
			if rc.JsonContent != nil {
				js = &JSONContent{KeyName: rc.JsonContent.KeyName, ReplaceContent: rc.JsonContent.ReplaceContent}
			}

			r, err := newReplacement(x, js)
			if err != nil {
				return nil, errors.Errorf("config group %d, replace content %d: %w", i+1, j+1, err)
			}
			group.ReplaceContents = append(group.ReplaceContents, r)
		}

		m.ConfigGroups = append(m.ConfigGroups, group)
	}

	return m, nil
}
