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

package expr

import (
	"github.com/rulego/aggexpr/utils/fieldpath"
)

// Context resolves field names while an expression is rendered.
// Implementations must be read-only during rendering; the same name always
// resolves to the same reference within one render call.
type Context interface {
	// Resolve returns the reference for name without the leading "$".
	// Unknown names resolve to themselves.
	Resolve(name string) string
	// IsRootStage reports whether no upstream stage reshaped the documents.
	IsRootStage() bool
}

type rootContext struct{}

func (rootContext) Resolve(name string) string { return name }
func (rootContext) IsRootStage() bool          { return true }

// DefaultContext applies no prefixing. It is stateless and safe to share.
var DefaultContext Context = rootContext{}

// ExposedField is a field a stage makes visible to the next stage
type ExposedField struct {
	Name string
	// GroupID marks fields that live inside the _id of a $group output
	GroupID bool
}

// ExposedFieldsContext resolves names against the fields an upstream stage
// exposed. Fields that were grouped on live under _id: a single group field
// becomes "_id", several become "_id.<name>". It is immutable once built and
// may be reused across renders.
type ExposedFieldsContext struct {
	fields   map[string]ExposedField
	groupIDs int
}

// NewExposedFieldsContext builds a context for the stage following the one
// that exposed fields. Later duplicates replace earlier ones.
func NewExposedFieldsContext(fields []ExposedField) *ExposedFieldsContext {
	ctx := &ExposedFieldsContext{fields: make(map[string]ExposedField, len(fields))}
	for _, f := range fields {
		if prev, ok := ctx.fields[f.Name]; ok && prev.GroupID {
			ctx.groupIDs--
		}
		ctx.fields[f.Name] = f
		if f.GroupID {
			ctx.groupIDs++
		}
	}
	return ctx
}

// Resolve implements Context
func (c *ExposedFieldsContext) Resolve(name string) string {
	root, rest := fieldpath.Split(name)
	f, ok := c.fields[root]
	if !ok || !f.GroupID {
		return name
	}
	if c.groupIDs == 1 {
		return "_id" + rest
	}
	return "_id." + root + rest
}

// IsRootStage implements Context
func (c *ExposedFieldsContext) IsRootStage() bool {
	return false
}

// Exposes reports whether name (or its root segment) was exposed upstream
func (c *ExposedFieldsContext) Exposes(name string) bool {
	root, _ := fieldpath.Split(name)
	_, ok := c.fields[root]
	return ok
}
