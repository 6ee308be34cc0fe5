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

package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dpb/pkg/document"
)

func TestXMLReplace(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		tag         string
		value       string
		wantChanges []document.Change
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:    "replaces_all_matches",
			content: `<configuration><add>one</add><section><add>two</add></section></configuration>`,
			tag:     "add",
			value:   "new",
			wantChanges: []document.Change{
				{Kind: document.KindXML, Selector: "add", Old: "one", New: "new"},
				{Kind: document.KindXML, Selector: "add", Old: "two", New: "new"},
			},
			wantContain: []string{"<add>new</add>"},
			wantAbsent:  []string{"one", "two"},
		},
		{
			name:    "match_stops_descent",
			content: `<root><item><item>inner</item>outer</item></root>`,
			tag:     "item",
			value:   "flat",
			wantChanges: []document.Change{
				{Kind: document.KindXML, Selector: "item", Old: "innerouter", New: "flat"},
			},
			wantContain: []string{"<item>flat</item>"},
			wantAbsent:  []string{"inner", "outer"},
		},
		{
			name:        "root_is_not_a_candidate",
			content:     `<add>root</add>`,
			tag:         "add",
			value:       "new",
			wantContain: []string{"<add>root</add>"},
		},
		{
			name:        "no_match",
			content:     `<root><a>1</a></root>`,
			tag:         "b",
			value:       "2",
			wantContain: []string{"<a>1</a>"},
		},
		{
			name:    "case_sensitive",
			content: `<root><Key>1</Key><key>2</key></root>`,
			tag:     "key",
			value:   "3",
			wantChanges: []document.Change{
				{Kind: document.KindXML, Selector: "key", Old: "2", New: "3"},
			},
			wantContain: []string{"<Key>1</Key>", "<key>3</key>"},
		},
		{
			name:    "keeps_comments",
			content: "<root>\n  <!-- PDBMARK prod -->\n  <a>1</a>\n  <!-- PDBMARK_END -->\n</root>",
			tag:     "a",
			value:   "2",
			wantChanges: []document.Change{
				{Kind: document.KindXML, Selector: "a", Old: "1", New: "2"},
			},
			wantContain: []string{"<!-- PDBMARK prod -->", "<a>2</a>", "<!-- PDBMARK_END -->"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := document.ParseXML(tt.content)
			require.NoError(t, err)

			changes := doc.Replace(tt.tag, tt.value)
			assert.Equal(t, tt.wantChanges, changes)

			out, err := doc.Serialize()
			require.NoError(t, err)
			for _, s := range tt.wantContain {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestXMLSequentialReplacements(t *testing.T) {
	doc, err := document.ParseXML(`<root><a><b>1</b></a></root>`)
	require.NoError(t, err)

	assert.Len(t, doc.Replace("b", "2"), 1)
	changes := doc.Replace("a", "3")
	require.Len(t, changes, 1)
	assert.Equal(t, "2", changes[0].Old)
}

func TestParseXMLErrors(t *testing.T) {
	for _, content := range []string{
		"",
		"just some text",
		"<root><a></root>",
		`{"json": true}`,
		"<a>1</a><b>2</b>",
		"<?xml version=\"1.0\"?>\n<a>1</a>\n<b>2</b>\n",
		"leading<root/>",
		"<root/>trailing",
	} {
		_, err := document.ParseXML(content)
		assert.Error(t, err, "content %q", content)
	}
}

func TestParseXMLTopLevelWhitespaceAndComments(t *testing.T) {
	doc, err := document.ParseXML("<?xml version=\"1.0\"?>\n<!-- settings -->\n<root><a>1</a></root>\n\n")
	require.NoError(t, err)
	assert.Len(t, doc.Replace("a", "2"), 1)
}

func TestParseXMLByteOrderMark(t *testing.T) {
	doc, err := document.ParseXML("\ufeff<root><a>1</a></root>")
	require.NoError(t, err)
	assert.Len(t, doc.Replace("a", "2"), 1)
}

func TestChangeString(t *testing.T) {
	c := document.Change{Kind: document.KindJSON, Selector: "k", Old: "a", New: "b"}
	assert.Equal(t, "json node <k> changed value from [a] to [b]", c.String())
}
