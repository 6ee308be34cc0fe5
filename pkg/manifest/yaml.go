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

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(&YAMLParser{})
}

// 🔧 YAMLParser reads snake_case YAML manifests.
type YAMLParser struct{}

type yamlManifest struct {
	SourceDir    string            `yaml:"source_dir"`
	OutputDir    string            `yaml:"output_dir"`
	ConfigGroups []yamlConfigGroup `yaml:"config_groups"`
}

type yamlConfigGroup struct {
	Files                 []string             `yaml:"files"`
	ReplaceContents       []yamlReplaceContent `yaml:"replace_contents"`
	KeepContentConditions []string             `yaml:"keep_content_conditions"`
	KeepFileConditions    []string             `yaml:"keep_file_conditions"`
}

type yamlReplaceContent struct {
	XMLContent *struct {
		TagName        string `yaml:"tag_name"`
		ReplaceContent string `yaml:"replace_content"`
	} `yaml:"xml_content"`
	JSONContent *struct {
		KeyName        string `yaml:"key_name"`
		ReplaceContent string `yaml:"replace_content"`
	} `yaml:"json_content"`
}

func (p *YAMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Manifest, error) {
	var raw yamlManifest
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	m := &Manifest{
		SourceDir: raw.SourceDir,
		OutputDir: raw.OutputDir,
	}

	for i, g := range raw.ConfigGroups {
		group := ConfigGroup{
			Files:                 g.Files,
			KeepContentConditions: g.KeepContentConditions,
			KeepFileConditions:    g.KeepFileConditions,
		}

		for j, rc := range g.ReplaceContents {
			var (
				x  *XMLContent
				js *JSONContent
			)
			if rc.XMLContent != nil {
				x = &XMLContent{TagName: rc.XMLContent.TagName, ReplaceContent: rc.XMLContent.ReplaceContent}
			}
			if rc.JSONContent != nil {
				js = &JSONContent{KeyName: rc.JSONContent.KeyName, ReplaceContent: rc.JSONContent.ReplaceContent}
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
