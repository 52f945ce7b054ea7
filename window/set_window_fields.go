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

package window

import (
	"fmt"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/pipeline"
)

const stageKey = "$setWindowFields"

type output struct {
	name   string
	value  expr.Expression
	bounds Bounds
}

// Stage is an immutable $setWindowFields builder
type Stage struct {
	partitionBy expr.Expression
	sortBy      []pipeline.SortField
	outputs     []output
}

// SetWindowFields starts an empty stage
func SetWindowFields() Stage {
	return Stage{}
}

// PartitionBy groups documents by the value of e; e goes through expr.Operand.
func (s Stage) PartitionBy(e any) Stage {
	s.partitionBy = expr.Operand(e)
	return s
}

// PartitionByField partitions by a single field
func (s Stage) PartitionByField(name string) Stage {
	return s.PartitionBy(expr.Field(name))
}

// SortBy orders documents inside each partition
func (s Stage) SortBy(fields ...pipeline.SortField) Stage {
	s.sortBy = append([]pipeline.SortField(nil), fields...)
	return s
}

// Output adds a field computed over the whole partition
func (s Stage) Output(name string, e expr.Expression) Stage {
	return s.OutputWithin(name, e, Bounds{})
}

// OutputWithin adds a field computed over bounds
func (s Stage) OutputWithin(name string, e expr.Expression, bounds Bounds) Stage {
	s.outputs = append(append([]output(nil), s.outputs...), output{name: name, value: e, bounds: bounds})
	return s
}

// Build validates the stage
func (s Stage) Build() (Stage, error) {
	if err := s.Validate(); err != nil {
		return Stage{}, err
	}
	return s, nil
}

// Validate checks outputs, bounds and sort requirements
func (s Stage) Validate() error {
	if len(s.outputs) == 0 {
		return expr.NewError(expr.CodeInvalidParameter, stageKey, "stage requires at least one output")
	}
	if err := pipeline.ValidateSort(stageKey, s.sortBy); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.outputs))
	for _, o := range s.outputs {
		if o.name == "" {
			return expr.NewError(expr.CodeInvalidParameter, stageKey, "empty output name")
		}
		if seen[o.name] {
			return expr.NewError(expr.CodeInvalidParameter, stageKey, "duplicate output %s", o.name)
		}
		seen[o.name] = true

		if o.value == nil {
			return expr.NewError(expr.CodeInvalidOperand, stageKey, "output %s has no expression", o.name)
		}
		op, ok := expr.OperatorOf(o.value)
		if !ok {
			return expr.NewError(expr.CodeInvalidOperand, stageKey, "output %s must be an operator expression", o.name)
		}
		if expr.RequiresSort(o.value) && len(s.sortBy) == 0 {
			return &expr.Error{
				Code:     expr.CodeWindowSortRequired,
				Operator: op.Name(),
				Message:  fmt.Sprintf("output %s requires sortBy", o.name),
				Position: -1,
			}
		}
		if err := o.bounds.Validate(); err != nil {
			return fmt.Errorf("output %s: %w", o.name, err)
		}
		if o.bounds.Kind() == TypeRange && len(s.sortBy) != 1 {
			return expr.NewError(expr.CodeInvalidParameter, stageKey, "range window on %s requires exactly one sort field", o.name)
		}
	}
	return nil
}

func (s Stage) ToDocument(ctx expr.Context) document.D {
	if ctx == nil {
		ctx = expr.DefaultContext
	}

	var body document.D
	if s.partitionBy != nil {
		body = append(body, document.E{Key: "partitionBy", Value: expr.Render(s.partitionBy, ctx)})
	}
	if len(s.sortBy) > 0 {
		body = append(body, document.E{Key: "sortBy", Value: pipeline.SortDocument(ctx, s.sortBy)})
	}

	out := make(document.D, 0, len(s.outputs))
	for _, o := range s.outputs {
		d, ok := expr.ToDocument(o.value, ctx)
		if !ok {
			panic(fmt.Sprintf("window: output %s did not render to a document", o.name))
		}
		if !o.bounds.IsZero() {
			d = d.With("window", o.bounds.ToDocument())
		}
		out = append(out, document.E{Key: o.name, Value: d})
	}
	body = append(body, document.E{Key: "output", Value: out})

	return document.D{{Key: stageKey, Value: body}}
}

// ExposedFields returns the output names
func (s Stage) ExposedFields() []expr.ExposedField {
	fields := make([]expr.ExposedField, 0, len(s.outputs))
	for _, o := range s.outputs {
		fields = append(fields, expr.ExposedField{Name: o.name})
	}
	return fields
}

// InheritsFields is always true, $setWindowFields keeps every input field
func (s Stage) InheritsFields() bool {
	return true
}
