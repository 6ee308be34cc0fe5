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

// Package document parses XML and JSON text into mutable trees and
// rewrites the values selected by tag or key name.
package document

import (
	"fmt"
	"strings"
)

const byteOrderMark = "\ufeff"

// 🔄 Change records one value overwritten by a Replace call.
type Change struct {
	Kind     Kind   // Document kind the change was made in
	Selector string // Tag or key name that matched
	Old      string // Value before the change
	New      string // Value after the change
}

// Kind identifies the document format.
type Kind string

const (
	KindXML  Kind = "xml"
	KindJSON Kind = "json"
)

// String formats the change the way it appears in the audit log.
func (c Change) String() string {
	return fmt.Sprintf("%s node <%s> changed value from [%s] to [%s]", c.Kind, c.Selector, c.Old, c.New)
}

func trimBOM(text string) string {
	return strings.TrimPrefix(text, byteOrderMark)
}
