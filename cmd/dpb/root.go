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

package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dpb/cmd/dpb/commands"
	"github.com/walteh/dpb/cmd/dpb/opts"
)

// newRootCmd wires the dpb command tree
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "dpb",
		Short: "Build deployment-specific copies of a source tree",
		Long: `dpb produces a transformed copy of a source directory for one deployment.
It rewrites values in XML and JSON files and strips files or line ranges
marked with PDBMARK comments, as described by a manifest file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), rootOpts, cmd.ErrOrStderr()))
		},
	}

	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewBuildCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ManifestPath, "manifest", "m", "dpb.json", "manifest file path (.json, .yaml, .yml or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.Trace, "trace", false, "enable trace logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, o *opts.RootOpts, w io.Writer) context.Context {
	level := zerolog.InfoLevel
	switch {
	case o.Trace:
		level = zerolog.TraceLevel
	case o.Debug:
		level = zerolog.DebugLevel
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log

	if ctx == nil {
		ctx = context.Background()
	}
	return log.WithContext(ctx)
}
