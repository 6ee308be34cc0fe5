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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dpb/cmd/dpb/opts"
	userlog "github.com/walteh/dpb/pkg/log"
	"github.com/walteh/dpb/pkg/manifest"
	"github.com/walteh/dpb/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCmd creates a new build command
func NewBuildCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		clean   bool
		workDir string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Transform the source directory into the output directory",
		Long: `Build reads the manifest and produces a transformed copy of its source
directory. For every config group it will:
1. Select files by glob
2. Rewrite XML tags and JSON keys listed in the replace rules
3. Drop files and line ranges guarded by PDBMARK markers
4. Write the result under the output directory

Every decision is written to DPB.log in the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "build").Logger().WithContext(cmd.Context())

			m, err := manifest.Load(ctx, opts.ManifestPath)
			if err != nil {
				return errors.Errorf("loading manifest: %w", err)
			}

			builder, err := pipeline.New(pipeline.Options{
				Manifest: m,
				WorkDir:  workDir,
			})
			if err != nil {
				return errors.Errorf("creating builder: %w", err)
			}

			report, err := builder.Build(ctx, clean)
			if err != nil {
				return errors.Errorf("building: %w", err)
			}

			userlog.NewUserLogger(ctx, cmd.OutOrStdout()).LogReport(report)

			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", true, "delete the output directory before building")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "directory relative manifest paths are resolved against (default: current directory)")

	return cmd
}
