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
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser reads HCL manifests.
//
//	source_dir = "src"
//	output_dir = "dist"
//
//	config_group {
//	  files                   = ["*.config"]
//	  keep_content_conditions = ["prod"]
//
//	  replace {
//	    xml_tag = "connectionString"
//	    value   = "Server=prod"
//	  }
//	}
//
// Attributes and blocks it does not know are ignored.
type HCLParser struct{}

type hclManifest struct {
	SourceDir    string           `hcl:"source_dir"`
	OutputDir    string           `hcl:"output_dir"`
	ConfigGroups []hclConfigGroup `hcl:"config_group,block"`
	Remain       hcl.Body         `hcl:",remain"`
}

type hclConfigGroup struct {
	Files                 []string     `hcl:"files"`
	KeepContentConditions []string     `hcl:"keep_content_conditions,optional"`
	KeepFileConditions    []string     `hcl:"keep_file_conditions,optional"`
	Replace               []hclReplace `hcl:"replace,block"`
	Remain                hcl.Body     `hcl:",remain"`
}

// hclReplace uses a single block type so xml and json edits keep their relative order.
type hclReplace struct {
	XMLTag  *string  `hcl:"xml_tag,optional"`
	JSONKey *string  `hcl:"json_key,optional"`
	Value   string   `hcl:"value"`
	Remain  hcl.Body `hcl:",remain"`
}

func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "manifest.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclManifest
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
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

		for j, rc := range g.Replace {
			var (
				x  *XMLContent
				js *JSONContent
			)
			if rc.XMLTag != nil {
				x = &XMLContent{TagName: *rc.XMLTag, ReplaceContent: rc.Value}
			}
			if rc.JSONKey != nil {
				js = &JSONContent{KeyName: *rc.JSONKey, ReplaceContent: rc.Value}
			}

			r, err := newReplacement(x, js)
			if err != nil {
				return nil, errors.Errorf("config group %d, replace %d: %w", i+1, j+1, err)
			}
			group.ReplaceContents = append(group.ReplaceContents, r)
		}

		m.ConfigGroups = append(m.ConfigGroups, group)
	}

	return m, nil
}
