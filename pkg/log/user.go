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

// Package log presents build results to the person running dpb.
package log

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/dpb/pkg/pipeline"
)

// 📢 UserLogger provides user-friendly console feedback, mirrored to zerolog.
type UserLogger struct {
	log     zerolog.Logger
	console io.Writer
}

// 🎯 NewUserLogger creates a user logger printing to console and logging
// through the context logger.
func NewUserLogger(ctx context.Context, console io.Writer) *UserLogger {
	return &UserLogger{
		log:     *zerolog.Ctx(ctx),
		console: console,
	}
}

// 📝 LogFileResult prints one file outcome.
func (u *UserLogger) LogFileResult(r pipeline.FileResult, root string) {
	fmt.Fprintln(u.console, FormatFileResult(r, root))

	u.log.Info().
		Int("group", r.Group).
		Str("source", r.Source).
		Str("output", r.Output).
		Stringer("status", r.Status).
		Int("changes", r.Changes).
		Int("blocks_removed", r.BlocksRemoved).
		Int("format_errors", r.FormatErrors).
		Msg("file processed")
}

// 📊 LogReport prints every file of a build grouped by config group,
// followed by a summary.
func (u *UserLogger) LogReport(report *pipeline.Report) {
	fmt.Fprintf(u.console, "[building %s]\n", color.New(color.FgCyan).Sprint(report.OutputRoot))

	group := 0
	for _, r := range report.Files {
		if r.Group != group {
			group = r.Group
			fmt.Fprintf(u.console, "%s %s\n",
				color.New(color.FgMagenta).Sprint("◆"),
				color.New(color.Bold).Sprintf("config group %d", group))
		}
		u.LogFileResult(r, report.SourceRoot)
	}

	summary := fmt.Sprintf("%d saved, %d removed in %.2fs, log at %s",
		report.Count(pipeline.StatusSaved),
		report.Count(pipeline.StatusRemoved),
		report.Elapsed.Seconds(),
		report.LogPath,
	)
	pterm.Success.WithWriter(u.console).WithPrefix(pterm.Prefix{Text: "✅"}).Println(summary)
	u.log.Info().Str("log", report.LogPath).Msg(summary)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithWriter(u.console).WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}

	if err != nil {
		pterm.Error.WithWriter(u.console).WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.WithWriter(u.console).Println(err)
		u.log.Error().Err(err).Msg(description)
		return
	}

	pterm.Warning.WithWriter(u.console).WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
	u.log.Warn().Msg(description)
}
