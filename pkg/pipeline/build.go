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
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/walteh/dpb/pkg/audit"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Build transforms every file selected by the manifest into the output
// root and writes DPB.log there. When cleanOutputDir is set the previous
// output tree is removed first; failing to remove it is not an error.
//
// Structured-document parse failures are recorded and skipped. Any
// filesystem failure on a source or output file aborts the build, in which
// case DPB.log may not exist.
func (b *Builder) Build(ctx context.Context, cleanOutputDir bool) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	start := b.clock()
	rec := audit.NewRecorder(b.clock)

	rec.Recordf(ctx, "---- DPB Build begin at %s ----", start.Local().Format(audit.TimestampFormat))

	sourceRoot := b.resolve(b.manifest.SourceDir)
	outputRoot := b.resolve(b.manifest.OutputDir)
	report := &Report{SourceRoot: sourceRoot, OutputRoot: outputRoot}

	logger.Debug().
		Str("source_root", sourceRoot).
		Str("output_root", outputRoot).
		Bool("clean", cleanOutputDir).
		Msg("starting build")

	if cleanOutputDir {
		if err := util.RemoveAll(b.fs, outputRoot); err != nil {
			logger.Trace().Err(err).Str("path", outputRoot).Msg("cleaning output directory")
		}
	}

	if err := b.fs.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, errors.Errorf("creating output directory: %w", err)
	}

	for i, group := range b.manifest.ConfigGroups {
		groupIndex := i + 1
		rec.Recordf(ctx, "config group: %d", groupIndex)

		files, err := b.matchFiles(ctx, sourceRoot, group.Files)
		if err != nil {
			return nil, errors.Errorf("config group %d: %w", groupIndex, err)
		}

		for _, file := range files {
			result, err := b.processFile(ctx, rec, group, file, sourceRoot, outputRoot)
			if err != nil {
				return nil, errors.Errorf("processing file %s: %w", file, err)
			}
			result.Group = groupIndex
			report.Files = append(report.Files, result)
		}
	}

	logPath := filepath.Join(outputRoot, LogFileName)
	if err := b.writeFile(logPath, rec.Bytes(b.sep)); err != nil {
		return nil, errors.Errorf("writing audit log: %w", err)
	}

	report.Elapsed = b.clock().Sub(start)
	rec.Recordf(ctx, "saved new file: %s", logPath)
	rec.Record(ctx, "---- DPB Build Finished ----")
	rec.Recordf(ctx, "---- Total time: %v seconds ----", report.Elapsed.Seconds())

	report.LogPath = logPath
	report.Records = rec.Records()

	logger.Debug().
		Int("saved", report.Count(StatusSaved)).
		Int("removed", report.Count(StatusRemoved)).
		Dur("elapsed", report.Elapsed).
		Msg("build finished")

	return report, nil
}
