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

package pipeline

import (
	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
)

// field is a named stage entry whose value is any operand
type field struct {
	name  string
	value expr.Expression
}

// checkNotWindowed rejects window-only operators, which the engine accepts
// only as $setWindowFields outputs.
func checkNotWindowed(stage string, fields []field) error {
	for _, f := range fields {
		if f.value == nil || !expr.IsWindowOnly(f.value) {
			continue
		}
		op := "window operator"
		expr.Walk(f.value, func(x expr.Expression) bool {
			if o, ok := expr.OperatorOf(x); ok && o.WindowOnly() {
				op = o.Token()
				return false
			}
			return true
		})
		return expr.NewError(expr.CodeInvalidOperand, stage, "field %s uses %s outside $setWindowFields", f.name, op)
	}
	return nil
}

// AddFieldsStage renders $addFields or its alias $set. It keeps every input
// field, so later stages resolve names against the same context.
type AddFieldsStage struct {
	key    string
	fields []field
}

// AddFields starts an $addFields stage
func AddFields() AddFieldsStage {
	return AddFieldsStage{key: "$addFields"}
}

// Set starts a $set stage
func Set() AddFieldsStage {
	return AddFieldsStage{key: "$set"}
}

// Field adds name computed from value; value goes through expr.Operand.
func (s AddFieldsStage) Field(name string, value any) AddFieldsStage {
	s.fields = append(append([]field(nil), s.fields...), field{name: name, value: expr.Operand(value)})
	return s
}

func (s AddFieldsStage) Validate() error {
	if len(s.fields) == 0 {
		return expr.NewError(expr.CodeInvalidParameter, s.key, "stage requires at least one field")
	}
	return checkNotWindowed(s.key, s.fields)
}

func (s AddFieldsStage) ToDocument(ctx expr.Context) document.D {
	body := make(document.D, 0, len(s.fields))
	for _, f := range s.fields {
		body = append(body, document.E{Key: f.name, Value: expr.Render(f.value, ctx)})
	}
	return document.D{{Key: s.key, Value: body}}
}

// ProjectStage renders $project
type ProjectStage struct {
	fields    []field
	excludeID bool
}

// Project includes the named fields
func Project(names ...string) ProjectStage {
	return ProjectStage{}.Include(names...)
}

// Include adds plain field inclusions
func (s ProjectStage) Include(names ...string) ProjectStage {
	fields := append([]field(nil), s.fields...)
	for _, name := range names {
		fields = append(fields, field{name: name})
	}
	s.fields = fields
	return s
}

// Alias exposes source under name
func (s ProjectStage) Alias(name, source string) ProjectStage {
	return s.Compute(name, expr.Field(source))
}

// Compute exposes name with the value of e
func (s ProjectStage) Compute(name string, e expr.Expression) ProjectStage {
	s.fields = append(append([]field(nil), s.fields...), field{name: name, value: e})
	return s
}

// ExcludeID drops _id from the output
func (s ProjectStage) ExcludeID() ProjectStage {
	s.excludeID = true
	return s
}

func (s ProjectStage) Validate() error {
	if len(s.fields) == 0 && !s.excludeID {
		return expr.NewError(expr.CodeInvalidParameter, "$project", "stage requires at least one field")
	}
	for _, f := range s.fields {
		if f.name == "" {
			return expr.NewError(expr.CodeInvalidParameter, "$project", "empty field name")
		}
	}
	return checkNotWindowed("$project", s.fields)
}

func (s ProjectStage) ToDocument(ctx expr.Context) document.D {
	body := make(document.D, 0, len(s.fields)+1)
	if s.excludeID {
		body = append(body, document.E{Key: "_id", Value: 0})
	}
	for _, f := range s.fields {
		if f.value != nil {
			body = append(body, document.E{Key: f.name, Value: expr.Render(f.value, ctx)})
			continue
		}
		// 字段已被上游重命名时改为引用
		if resolved := ctx.Resolve(f.name); resolved != f.name {
			body = append(body, document.E{Key: f.name, Value: "$" + resolved})
		} else {
			body = append(body, document.E{Key: f.name, Value: 1})
		}
	}
	return document.D{{Key: "$project", Value: body}}
}

func (s ProjectStage) ExposedFields() []expr.ExposedField {
	out := make([]expr.ExposedField, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, expr.ExposedField{Name: f.name})
	}
	return out
}

// GroupStage renders $group
type GroupStage struct {
	ids     []string
	outputs []field
}

// Group groups by the given fields. No fields groups everything under a
// null id.
func Group(ids ...string) GroupStage {
	return GroupStage{ids: append([]string(nil), ids...)}
}

// Accumulate adds an output computed by an accumulator expression
func (s GroupStage) Accumulate(name string, e expr.Expression) GroupStage {
	s.outputs = append(append([]field(nil), s.outputs...), field{name: name, value: e})
	return s
}

// Sum adds {name: {$sum: "$source"}}
func (s GroupStage) Sum(name, source string) GroupStage {
	return s.Accumulate(name, expr.ValueOf(source).Sum())
}

// Avg adds {name: {$avg: "$source"}}
func (s GroupStage) Avg(name, source string) GroupStage {
	return s.Accumulate(name, expr.ValueOf(source).Avg())
}

// Max adds {name: {$max: "$source"}}
func (s GroupStage) Max(name, source string) GroupStage {
	return s.Accumulate(name, expr.ValueOf(source).Max())
}

// Min adds {name: {$min: "$source"}}
func (s GroupStage) Min(name, source string) GroupStage {
	return s.Accumulate(name, expr.ValueOf(source).Min())
}

// Count adds {name: {$sum: 1}}
func (s GroupStage) Count(name string) GroupStage {
	return s.Accumulate(name, expr.ValueOfValue(1).Sum())
}

func (s GroupStage) Validate() error {
	for _, o := range s.outputs {
		if o.name == "_id" {
			return expr.NewError(expr.CodeInvalidParameter, "$group", "output may not be named _id")
		}
		if o.value == nil {
			return expr.NewError(expr.CodeInvalidOperand, "$group", "output %s has no expression", o.name)
		}
	}
	return checkNotWindowed("$group", s.outputs)
}

func (s GroupStage) ToDocument(ctx expr.Context) document.D {
	var id any
	switch len(s.ids) {
	case 0:
		id = nil
	case 1:
		id = "$" + ctx.Resolve(s.ids[0])
	default:
		d := make(document.D, 0, len(s.ids))
		for _, name := range s.ids {
			d = append(d, document.E{Key: name, Value: "$" + ctx.Resolve(name)})
		}
		id = d
	}

	body := document.D{{Key: "_id", Value: id}}
	for _, o := range s.outputs {
		body = append(body, document.E{Key: o.name, Value: expr.Render(o.value, ctx)})
	}
	return document.D{{Key: "$group", Value: body}}
}

func (s GroupStage) ExposedFields() []expr.ExposedField {
	out := make([]expr.ExposedField, 0, len(s.ids)+len(s.outputs))
	for _, name := range s.ids {
		out = append(out, expr.ExposedField{Name: name, GroupID: true})
	}
	for _, o := range s.outputs {
		out = append(out, expr.ExposedField{Name: o.name})
	}
	return out
}

// Direction is a sort order
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// SortField is one sort key
type SortField struct {
	Name      string
	Direction Direction
}

// Asc sorts name ascending
func Asc(name string) SortField { return SortField{Name: name, Direction: Ascending} }

// Desc sorts name descending
func Desc(name string) SortField { return SortField{Name: name, Direction: Descending} }

// SortDocument renders sort keys with names resolved against ctx
func SortDocument(ctx expr.Context, fields []SortField) document.D {
	d := make(document.D, 0, len(fields))
	for _, f := range fields {
		d = append(d, document.E{Key: ctx.Resolve(f.Name), Value: int(f.Direction)})
	}
	return d
}

// ValidateSort checks sort keys for empty names and unknown directions
func ValidateSort(operator string, fields []SortField) error {
	for _, f := range fields {
		if f.Name == "" {
			return expr.NewError(expr.CodeInvalidParameter, operator, "empty sort field")
		}
		if f.Direction != Ascending && f.Direction != Descending {
			return expr.NewError(expr.CodeInvalidParameter, operator, "invalid direction %d for %s", f.Direction, f.Name)
		}
	}
	return nil
}

// SortStage renders $sort
type SortStage struct {
	fields []SortField
}

// Sort orders documents by fields, in the given precedence
func Sort(fields ...SortField) SortStage {
	return SortStage{fields: append([]SortField(nil), fields...)}
}

func (s SortStage) Validate() error {
	if len(s.fields) == 0 {
		return expr.NewError(expr.CodeInvalidParameter, "$sort", "stage requires at least one field")
	}
	return ValidateSort("$sort", s.fields)
}

func (s SortStage) ToDocument(ctx expr.Context) document.D {
	return document.D{{Key: "$sort", Value: SortDocument(ctx, s.fields)}}
}

// countStage renders $limit and $skip
type countStage struct {
	key string
	n   int64
}

// Limit passes the first n documents
func Limit(n int64) Stage { return countStage{key: "$limit", n: n} }

// Skip drops the first n documents
func Skip(n int64) Stage { return countStage{key: "$skip", n: n} }

func (s countStage) Validate() error {
	if s.n < 0 || (s.key == "$limit" && s.n == 0) {
		return expr.NewError(expr.CodeInvalidParameter, s.key, "invalid count %d", s.n)
	}
	return nil
}

func (s countStage) ToDocument(expr.Context) document.D {
	return document.D{{Key: s.key, Value: s.n}}
}
