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

package document

import (
	"strings"

	"github.com/beevik/etree"
	"gitlab.com/tozd/go/errors"
)

// 🌳 XML is a parsed markup document.
type XML struct {
	doc *etree.Document
}

// ParseXML parses text into an element tree. A document must have exactly
// one root element and no text outside of it.
func ParseXML(text string) (*XML, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(trimBOM(text)); err != nil {
		return nil, errors.Errorf("parsing xml: %w", err)
	}

	if err := checkTopLevel(doc); err != nil {
		return nil, errors.Errorf("parsing xml: %w", err)
	}

	return &XML{doc: doc}, nil
}

// checkTopLevel rejects what etree tolerates but a well-formed document
// cannot contain at its top level.
func checkTopLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return errors.Errorf("text %q outside the root element", strings.TrimSpace(t.Data))
			}
		}
	}

	switch roots {
	case 0:
		return errors.New("no root element")
	case 1:
		return nil
	default:
		return errors.Errorf("%d root elements", roots)
	}
}

// 🔄 Replace overwrites the value of every element whose tag equals
// tagName. Matching starts at the children of the root element and does
// not descend into a matched element.
func (x *XML) Replace(tagName, value string) []Change {
	var changes []Change
	replaceElements(x.doc.Root(), tagName, value, &changes)
	return changes
}

func replaceElements(parent *etree.Element, tagName, value string, changes *[]Change) {
	if parent == nil {
		return
	}

	for _, el := range parent.ChildElements() {
		if el.FullTag() != tagName {
			replaceElements(el, tagName, value, changes)
			continue
		}

		*changes = append(*changes, Change{
			Kind:     KindXML,
			Selector: tagName,
			Old:      innerText(el),
			New:      value,
		})

		// the element's value replaces all of its content
		for _, child := range append([]etree.Token(nil), el.Child...) {
			el.RemoveChild(child)
		}
		el.SetText(value)
	}
}

// innerText concatenates the character data of el and all its descendants.
func innerText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return sb.String()
}

// Serialize writes the document indented by two spaces. An XML declaration
// in the input is written back out; it is not stripped.
func (x *XML) Serialize() (string, error) {
	x.doc.Indent(2)
	out, err := x.doc.WriteToString()
	if err != nil {
		return "", errors.Errorf("writing xml: %w", err)
	}
	return out, nil
}
