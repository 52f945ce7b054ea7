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
	"fmt"

	"github.com/rulego/aggexpr/document"
)

// Render compiles e into its wire value: literals unchanged, field references
// as "$"+ctx.Resolve(name), operator nodes as single-key documents. A nil ctx
// means DefaultContext. Operands are rendered depth-first, left to right.
//
// Render is total over trees built with NewNode or the builder functions and
// panics on anything else, such as a zero Node.
func Render(e Expression, ctx Context) any {
	if ctx == nil {
		ctx = DefaultContext
	}

	switch v := e.(type) {
	case Literal:
		return v.Value
	case FieldReference:
		return "$" + ctx.Resolve(v.name)
	case ExpressionFunc:
		if v == nil {
			panic("expr: nil ExpressionFunc")
		}
		return v(ctx)
	case operatorExpression:
		return v.node().render(ctx)
	case nil:
		panic("expr: rendering a nil expression")
	}
	panic(fmt.Sprintf("expr: unsupported expression type %T", e))
}

// ToDocument renders e and requires the result to be a document, which holds
// for every operator node. The second result is false for literals and field
// references that render to scalars.
func ToDocument(e Expression, ctx Context) (document.D, bool) {
	d, ok := Render(e, ctx).(document.D)
	return d, ok
}

func (n *Node) render(ctx Context) document.D {
	if n == nil || !n.op.Valid() || len(n.operands) == 0 {
		panic("expr: rendering an unconstructed node, use NewNode or the builder functions")
	}

	args := make([]any, len(n.operands))
	for i, operand := range n.operands {
		args[i] = Render(operand, ctx)
	}

	var arg any
	switch n.op.Shape() {
	case ShapeValue:
		arg = args[0]
	case ShapeList:
		arg = args
	case ShapeAccumulator:
		if len(args) == 1 {
			arg = args[0]
		} else {
			arg = args
		}
	case ShapeTrigonometric:
		// 角度先转换为弧度
		arg = args[0]
		if n.angular == Degrees {
			arg = document.D{{Key: OpDegreesToRadians.Token(), Value: arg}}
		}
	case ShapeKeyed:
		arg = n.keyed(args[0])
	}

	return document.D{{Key: n.op.Token(), Value: arg}}
}

// keyed builds the {"input": ..} argument of windowed operators; unset
// parameters are left out rather than written as null.
func (n *Node) keyed(input any) document.D {
	d := document.D{{Key: "input", Value: input}}
	if n.unit != WindowUnitUnset {
		d = append(d, document.E{Key: "unit", Value: n.unit.Token()})
	}
	if n.hasN {
		d = append(d, document.E{Key: "N", Value: n.n})
	}
	if n.hasAlpha {
		d = append(d, document.E{Key: "alpha", Value: n.alpha})
	}
	return d
}
