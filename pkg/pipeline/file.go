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

package pipeline

import (
	"context"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/dpb/pkg/audit"
	"github.com/walteh/dpb/pkg/document"
	"github.com/walteh/dpb/pkg/manifest"
	"github.com/walteh/dpb/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// 📄 processFile runs one source file through the structured edits and
// the marker filter, then writes it to its mirrored output path.
func (b *Builder) processFile(ctx context.Context, rec *audit.Recorder, group manifest.ConfigGroup, path, sourceRoot, outputRoot string) (FileResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()
	result := FileResult{Source: path}

	rec.Recordf(ctx, "file: %s", path)

	data, err := util.ReadFile(b.fs, path)
	if err != nil {
		return result, errors.Errorf("reading source file: %w", err)
	}
	content := string(data)

	// parsed once per file, shared by every rule of the same kind
	var (
		xmlDoc  *document.XML
		jsonDoc *document.JSON
	)

	for _, r := range group.ReplaceContents {
		var changes []document.Change

		switch r := r.(type) {
		case manifest.XMLContent:
			if xmlDoc == nil {
				if xmlDoc, err = document.ParseXML(content); err != nil {
					result.FormatErrors++
					rec.Record(ctx, "Xml file format wrong")
					logger.Debug().Err(err).Str("tag", r.TagName).Msg("xml file format wrong")
					continue
				}
			}
			changes = xmlDoc.Replace(r.TagName, r.ReplaceContent)
		case manifest.JSONContent:
			if jsonDoc == nil {
				if jsonDoc, err = document.ParseJSON(content); err != nil {
					result.FormatErrors++
					rec.Record(ctx, "Json file format wrong")
					logger.Debug().Err(err).Str("key", r.KeyName).Msg("json file format wrong")
					continue
				}
			}
			changes = jsonDoc.Replace(r.KeyName, r.ReplaceContent)
		}

		for _, c := range changes {
			rec.Record(ctx, c.String())
		}
		result.Changes += len(changes)
	}

	switch {
	case xmlDoc != nil:
		if content, err = xmlDoc.Serialize(); err != nil {
			return result, errors.Errorf("serializing xml: %w", err)
		}
	case jsonDoc != nil:
		if content, err = jsonDoc.Serialize(); err != nil {
			return result, errors.Errorf("serializing json: %w", err)
		}
	}

	if keyword, keep := marker.KeepFile(content, group.KeepFileConditions); !keep {
		rec.Record(ctx, "remove this file")
		logger.Debug().Str("keyword", keyword).Msg("file removed by marker")
		result.Status = StatusRemoved
		return result, nil
	}

	filtered := marker.FilterContent(content, group.KeepContentConditions, b.sep)
	for _, block := range filtered.Removed {
		rec.Recordf(ctx, "remove content block at line %d: %s", block.Line, strings.TrimSpace(block.Marker))
	}
	result.BlocksRemoved = len(filtered.Removed)

	outPath, err := outputPath(sourceRoot, outputRoot, path)
	if err != nil {
		return result, err
	}

	if err := b.writeFile(outPath, []byte(filtered.Content)); err != nil {
		return result, errors.Errorf("writing output file: %w", err)
	}
	rec.Recordf(ctx, "saved new file: %s", outPath)

	logger.Debug().
		Str("output", outPath).
		Int("changes", result.Changes).
		Int("blocks_removed", result.BlocksRemoved).
		Msg("file saved")

	result.Output = outPath
	result.Status = StatusSaved
	return result, nil
}
