/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package fieldpath parses dotted field paths and walks ordered documents
// along them.
//
// Supported formats:
//   - a.b.c (nested fields)
//   - a.b[0] (array index)
//   - a.0.c (numeric segment, treated as an index when the value is an array)
//   - a["key"], a['key'] (quoted keys, may contain dots)
package fieldpath

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// PartType identifies the kind of a path segment
type PartType int

const (
	// PartField is a plain field name
	PartField PartType = iota
	// PartIndex is a bracketed array index
	PartIndex
	// PartKey is a quoted bracket key
	PartKey
)

// Part represents a single segment of a field path
type Part struct {
	Type  PartType
	Name  string // field name or key
	Index int    // array index (when Type is PartIndex)
}

// FieldAccessError reports a malformed field path
type FieldAccessError struct {
	Path    string
	Message string
}

func (e *FieldAccessError) Error() string {
	return fmt.Sprintf("field path %q: %s", e.Path, e.Message)
}

// Getter is implemented by ordered documents.
type Getter interface {
	Get(key string) (any, bool)
}

// Parse splits a field path into its segments.
func Parse(path string) ([]Part, error) {
	if path == "" {
		return nil, &FieldAccessError{Path: path, Message: "empty path"}
	}

	parts := make([]Part, 0, 4)
	rest := path
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			rest = rest[1:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				return nil, &FieldAccessError{Path: path, Message: "unmatched bracket"}
			}
			part, err := parseBracket(rest[1:end])
			if err != nil {
				return nil, &FieldAccessError{Path: path, Message: err.Error()}
			}
			parts = append(parts, part)
			rest = rest[end+1:]
		default:
			end := strings.IndexAny(rest, ".[")
			if end == -1 {
				end = len(rest)
			}
			parts = append(parts, Part{Type: PartField, Name: rest[:end]})
			rest = rest[end:]
		}
	}

	if len(parts) == 0 {
		return nil, &FieldAccessError{Path: path, Message: "no segments"}
	}
	return parts, nil
}

func parseBracket(content string) (Part, error) {
	content = strings.TrimSpace(content)
	if len(content) >= 2 {
		first, last := content[0], content[len(content)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return Part{Type: PartKey, Name: content[1 : len(content)-1]}, nil
		}
	}
	if n, err := strconv.Atoi(content); err == nil {
		return Part{Type: PartIndex, Name: content, Index: n}, nil
	}
	return Part{}, fmt.Errorf("invalid bracket content %q, expected number or quoted string", content)
}

// Split returns the first dotted segment of path and the remainder including
// its leading separator, e.g. "a.b.c" -> ("a", ".b.c").
func Split(path string) (root, rest string) {
	if i := strings.IndexAny(path, ".["); i > 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// Get walks data along path. Documents are accessed through Getter, slices by
// index (negative indices count from the end) and string keyed maps by key.
func Get(data any, path string) (any, bool) {
	parts, err := Parse(path)
	if err != nil {
		return nil, false
	}

	current := data
	for _, part := range parts {
		next, ok := step(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func step(data any, part Part) (any, bool) {
	if data == nil {
		return nil, false
	}
	if g, ok := data.(Getter); ok {
		return g.Get(part.Name)
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		index := part.Index
		if part.Type != PartIndex {
			n, err := strconv.Atoi(part.Name)
			if err != nil {
				return nil, false
			}
			index = n
		}
		if index < 0 {
			index = v.Len() + index
		}
		if index < 0 || index >= v.Len() {
			return nil, false
		}
		return v.Index(index).Interface(), true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(part.Name).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	default:
		return nil, false
	}
}
