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

// Package audit accumulates the timestamped, human-readable decisions a
// build makes and renders them as the DPB.log artifact.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TimestampFormat is the local-time layout of every record.
const TimestampFormat = "2006-01-02 15:04:05"

// 📝 Record is one audit log line.
type Record struct {
	Timestamp time.Time
	Message   string
}

// String formats the record as "<timestamp>\t<message>".
func (r Record) String() string {
	return r.Timestamp.Format(TimestampFormat) + "\t" + r.Message
}

// 📒 Recorder is an append-only list of records. It is owned by a single
// build and is not safe for concurrent use.
type Recorder struct {
	clock   func() time.Time
	records []Record
}

// NewRecorder creates a recorder stamping records with clock, or
// time.Now when clock is nil.
func NewRecorder(clock func() time.Time) *Recorder {
	if clock == nil {
		clock = time.Now
	}
	return &Recorder{clock: clock}
}

// Record appends message and mirrors it to the context logger.
func (r *Recorder) Record(ctx context.Context, message string) {
	rec := Record{Timestamp: r.clock().Local(), Message: message}
	r.records = append(r.records, rec)

	zerolog.Ctx(ctx).Debug().Str("audit", message).Msg("recorded")
}

// Recordf appends a formatted message.
func (r *Recorder) Recordf(ctx context.Context, format string, args ...any) {
	r.Record(ctx, fmt.Sprintf(format, args...))
}

// Records returns a copy of the records so far.
func (r *Recorder) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Bytes renders every record on its own line, each line ended by sep.
func (r *Recorder) Bytes(sep string) []byte {
	var buf bytes.Buffer
	for _, rec := range r.records {
		buf.WriteString(rec.String())
		buf.WriteString(sep)
	}
	return buf.Bytes()
}
