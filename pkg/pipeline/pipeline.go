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

// Package pipeline turns a manifest and a source tree into a transformed
// output tree plus the DPB.log audit artifact.
package pipeline

import (
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/walteh/dpb/pkg/audit"
	"github.com/walteh/dpb/pkg/manifest"
	"github.com/walteh/dpb/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// LogFileName is the audit artifact written at the output root.
const LogFileName = "DPB.log"

// 🔧 Options configures a [Builder].
type Options struct {
	// Manifest is the run description. Required.
	Manifest *manifest.Manifest
	// FS is the filesystem all paths are resolved on. Defaults to the OS
	// filesystem, whose files are synced after every write.
	FS billy.Filesystem
	// WorkDir resolves relative manifest roots. Defaults to the process working directory.
	WorkDir string
	// Clock stamps audit records. Defaults to time.Now.
	Clock func() time.Time
	// LineSeparator splits and rejoins content. Defaults to the platform separator.
	LineSeparator string
}

// 🏗️ Builder runs builds for one manifest.
type Builder struct {
	manifest *manifest.Manifest
	fs       billy.Filesystem
	workDir  string
	clock    func() time.Time
	sep      string
}

// 🏭 New creates a builder with the given options
func New(opts Options) (*Builder, error) {
	if opts.Manifest == nil {
		return nil, errors.Errorf("manifest is required")
	}

	b := &Builder{
		manifest: opts.Manifest,
		fs:       opts.FS,
		workDir:  opts.WorkDir,
		clock:    opts.Clock,
		sep:      opts.LineSeparator,
	}

	if b.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		b.workDir = wd
	}
	if b.fs == nil {
		b.fs = osfs.New(string(filepath.Separator), osfs.WithBoundOS())
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.sep == "" {
		b.sep = marker.LineSeparator()
	}

	return b, nil
}

// resolve makes dir absolute against the working directory.
func (b *Builder) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(b.workDir, dir)
}

// 📊 FileStatus is the outcome of processing one source file.
type FileStatus int

const (
	StatusSaved   FileStatus = iota // Written to the output tree
	StatusRemoved                   // Dropped by a PDBMARK_FILE marker
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusSaved:
		return "saved"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// 📄 FileResult describes what happened to one matched source file.
type FileResult struct {
	Group         int        // 1-based config group index
	Source        string     // Absolute source path
	Output        string     // Absolute output path, empty when removed
	Status        FileStatus // Outcome
	Changes       int        // Structured values overwritten
	FormatErrors  int        // Structured parses that failed
	BlocksRemoved int        // PDBMARK blocks dropped
}

// 📋 Report is the result of one build.
type Report struct {
	SourceRoot string         // Absolute source root
	OutputRoot string         // Absolute output root
	Records    []audit.Record // Every decision, in order
	Files      []FileResult   // One entry per processed match, duplicates included
	LogPath    string         // Where DPB.log was written
	Elapsed    time.Duration  // Total build time
}

// Count returns the number of file results with status s.
func (r *Report) Count(s FileStatus) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}
