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
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gitlab.com/tozd/go/errors"
)

type object = *orderedmap.OrderedMap[string, any]

// 🌳 JSON is a parsed key/value document. Objects keep their source key
// order so serialization is stable.
type JSON struct {
	root any
}

// ParseJSON parses text into a tree of ordered objects, []any arrays and
// string, json.Number, bool or nil scalars.
func ParseJSON(text string) (*JSON, error) {
	dec := json.NewDecoder(strings.NewReader(trimBOM(text)))
	dec.UseNumber()

	root, err := decodeValue(dec)
	if err != nil {
		return nil, errors.Errorf("parsing json: %w", err)
	}

	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, errors.Errorf("parsing json: %w", err)
		}
		return nil, errors.Errorf("parsing json: unexpected %v after top-level value", tok)
	}

	return &JSON{root: root}, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := orderedmap.New[string, any]()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, errors.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, errors.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// 🔄 Replace overwrites every object value whose key equals keyName with
// the string value. Objects nested under non-matching keys are searched
// too; arrays are not.
func (j *JSON) Replace(keyName, value string) []Change {
	obj, ok := j.root.(object)
	if !ok {
		return nil
	}

	var changes []Change
	replaceKeys(obj, keyName, value, &changes)
	return changes
}

func replaceKeys(obj object, keyName, value string, changes *[]Change) {
	// snapshot keys, values are rewritten while we go
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	for _, key := range keys {
		current, _ := obj.Get(key)

		if key == keyName {
			*changes = append(*changes, Change{
				Kind:     KindJSON,
				Selector: keyName,
				Old:      valueText(current),
				New:      value,
			})
			obj.Set(key, value)
			continue
		}

		if nested, ok := current.(object); ok {
			replaceKeys(nested, keyName, value, changes)
		}
	}
}

func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		var buf bytes.Buffer
		if err := writeValue(&buf, v); err != nil {
			return ""
		}
		return buf.String()
	}
}

// Serialize writes the document as compact JSON.
func (j *JSON) Serialize() (string, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, j.root); err != nil {
		return "", errors.Errorf("writing json: %w", err)
	}
	return buf.String(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case object:
		buf.WriteByte('{')
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if pair != t.Oldest() {
				buf.WriteByte(',')
			}
			if err := writeString(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case string:
		return writeString(buf, t)
	case json.Number:
		buf.WriteString(t.String())
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case nil:
		buf.WriteString("null")
	default:
		return errors.Errorf("unsupported json value %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
