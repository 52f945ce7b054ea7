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
	"strings"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/spf13/cast"
)

const (
	TypeDocuments = "documents"
	TypeRange     = "range"
)

// Bound keywords
const (
	Current   = "current"
	Unbounded = "unbounded"
)

// Bounds is the window of a single output. The zero value means no window
// clause, the server then uses the whole partition.
type Bounds struct {
	kind  string
	lower any
	upper any
	unit  expr.WindowUnit
}

// Documents bounds the window by position relative to the current document
func Documents(lower, upper any) Bounds {
	return Bounds{kind: TypeDocuments, lower: lower, upper: upper}
}

// Range bounds the window by the value of the sort key
func Range(lower, upper any) Bounds {
	return Bounds{kind: TypeRange, lower: lower, upper: upper}
}

// Unit sets the time unit of a range window
func (b Bounds) Unit(unit expr.WindowUnit) Bounds {
	b.unit = unit
	return b
}

// IsZero reports whether no window was set
func (b Bounds) IsZero() bool {
	return b.kind == ""
}

// Kind returns TypeDocuments, TypeRange or "" for the zero value
func (b Bounds) Kind() string {
	return b.kind
}

// Validate checks the bound values against the window kind
func (b Bounds) Validate() error {
	switch b.kind {
	case "":
		return nil
	case TypeDocuments:
		if b.unit != expr.WindowUnitUnset {
			return expr.NewError(expr.CodeInvalidParameter, b.kind, "unit is only valid on range windows")
		}
		for _, v := range []any{b.lower, b.upper} {
			if !isKeyword(v) && !isInteger(v) {
				return expr.NewError(expr.CodeInvalidParameter, b.kind, "bound %v must be an integer, %q or %q", v, Current, Unbounded)
			}
		}
		if isInteger(b.lower) && isInteger(b.upper) && cast.ToInt64(b.lower) > cast.ToInt64(b.upper) {
			return expr.NewError(expr.CodeInvalidParameter, b.kind, "lower bound %v is after upper bound %v", b.lower, b.upper)
		}
	case TypeRange:
		if !b.unit.Valid() {
			return expr.NewError(expr.CodeInvalidUnit, b.kind, "invalid unit %d", b.unit)
		}
		for _, v := range []any{b.lower, b.upper} {
			if !isKeyword(v) && !isNumber(v) {
				return expr.NewError(expr.CodeInvalidParameter, b.kind, "bound %v must be a number, %q or %q", v, Current, Unbounded)
			}
		}
		if isNumber(b.lower) && isNumber(b.upper) && cast.ToFloat64(b.lower) > cast.ToFloat64(b.upper) {
			return expr.NewError(expr.CodeInvalidParameter, b.kind, "lower bound %v is after upper bound %v", b.lower, b.upper)
		}
	default:
		return expr.NewError(expr.CodeInvalidParameter, "window", "unsupported window type: %s", b.kind)
	}
	return nil
}

// ToDocument renders the "window" clause body
func (b Bounds) ToDocument() document.D {
	if b.IsZero() {
		return nil
	}
	d := document.D{{Key: b.kind, Value: []any{b.lower, b.upper}}}
	if b.unit != expr.WindowUnitUnset {
		d = append(d, document.E{Key: "unit", Value: b.unit.Token()})
	}
	return d
}

func (b Bounds) String() string {
	if b.IsZero() {
		return "none"
	}
	s := fmt.Sprintf("%s[%v, %v]", b.kind, b.lower, b.upper)
	if b.unit != expr.WindowUnitUnset {
		s += " " + b.unit.Token()
	}
	return s
}

// BoundsConfig is the configuration form of Bounds
type BoundsConfig struct {
	Type  string `json:"type"`
	Lower any    `json:"lower"`
	Upper any    `json:"upper"`
	Unit  string `json:"unit,omitempty"`
}

// NewBounds creates validated bounds from configuration
func NewBounds(config BoundsConfig) (Bounds, error) {
	lower, upper := normalizeBound(config.Lower), normalizeBound(config.Upper)

	var b Bounds
	switch strings.ToLower(config.Type) {
	case TypeDocuments:
		b = Documents(lower, upper)
	case TypeRange:
		b = Range(lower, upper)
	default:
		return Bounds{}, expr.NewError(expr.CodeInvalidParameter, "window", "unsupported window type: %s", config.Type)
	}

	if config.Unit != "" {
		unit, err := expr.ParseWindowUnit(config.Unit)
		if err != nil {
			return Bounds{}, err
		}
		b = b.Unit(unit)
	}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

// normalizeBound maps decoded JSON numbers to int where they are integral
func normalizeBound(v any) any {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return cast.ToInt(n)
		}
	case string:
		return strings.ToLower(n)
	}
	return v
}

func isKeyword(v any) bool {
	s, ok := v.(string)
	return ok && (s == Current || s == Unbounded)
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return isInteger(v)
}
