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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// syncer is implemented by OS-backed files. In-memory files have nothing to sync.
type syncer interface {
	Sync() error
}

// 🔍 matchFiles expands patterns against every file below root. Results
// are grouped by pattern in pattern order; a file matched by two patterns
// appears twice.
//
// A pattern without a slash matches file names at any depth, a pattern
// with one matches the slash-separated path relative to root.
func (b *Builder) matchFiles(ctx context.Context, root string, patterns []string) ([]string, error) {
	var all []string
	err := util.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			all = append(all, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking source directory: %w", err)
	}

	var matched []string
	for _, pattern := range patterns {
		for _, path := range all {
			ok, err := matchPattern(pattern, root, path)
			if err != nil {
				return nil, errors.Errorf("matching pattern %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, path)
			}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Strs("patterns", patterns).
		Int("candidates", len(all)).
		Int("matched", len(matched)).
		Msg("matched files")

	return matched, nil
}

func matchPattern(pattern, root, path string) (bool, error) {
	pattern = filepath.ToSlash(pattern)
	if !strings.Contains(pattern, "/") {
		return doublestar.Match(pattern, filepath.Base(path))
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, err
	}
	return doublestar.Match(pattern, filepath.ToSlash(rel))
}

// outputPath re-roots path from sourceRoot under outputRoot.
func outputPath(sourceRoot, outputRoot, path string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, path)
	if err != nil {
		return "", errors.Errorf("relativizing %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s is outside the source directory %s", path, sourceRoot)
	}
	return filepath.Join(outputRoot, rel), nil
}

// 💾 writeFile replaces path with data, creating parent directories, and
// syncs it to stable storage when the filesystem supports it.
func (b *Builder) writeFile(path string, data []byte) error {
	if _, err := b.fs.Stat(path); err == nil {
		if err := b.fs.Remove(path); err != nil {
			return errors.Errorf("removing existing file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking existing file: %w", err)
	}

	if err := b.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	f, err := b.fs.Create(path)
	if err != nil {
		return errors.Errorf("creating file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return errors.Errorf("writing file: %w", err)
	}

	if s, ok := f.(syncer); ok {
		if err := s.Sync(); err != nil {
			f.Close()
			return errors.Errorf("syncing file: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return errors.Errorf("closing file: %w", err)
	}

	return nil
}
