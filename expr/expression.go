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
	"strings"
)

// Expression is the closed set of renderable expression variants:
// Literal, FieldReference, *Node (and the typed builders wrapping one) and
// ExpressionFunc.
type Expression interface {
	isExpression()
}

// Literal is a constant value rendered unchanged
type Literal struct {
	Value any
}

func (Literal) isExpression() {}

// Value wraps v in a Literal
func Value(v any) Literal {
	return Literal{Value: v}
}

// FieldReference reads a named field of the document being processed
type FieldReference struct {
	name string
}

func (FieldReference) isExpression() {}

// Field references the field name. A leading "$" is accepted and dropped,
// so Field("$total") and Field("total") are the same reference.
func Field(name string) FieldReference {
	return FieldReference{name: strings.TrimPrefix(name, "$")}
}

// Name returns the field name as given, without "$"
func (f FieldReference) Name() string {
	return f.name
}

// ExpressionFunc is a raw expression computed from the rendering context,
// e.g. a stage specific document the catalog does not cover.
type ExpressionFunc func(ctx Context) any

func (ExpressionFunc) isExpression() {}

// Operand turns v into an Expression: expressions stay as they are, every
// other value becomes a Literal. Use Field to reference a field.
func Operand(v any) Expression {
	if e, ok := v.(Expression); ok {
		return e
	}
	return Literal{Value: v}
}

// operatorExpression is implemented by *Node and the typed builders that
// wrap a node.
type operatorExpression interface {
	Expression
	node() *Node
}

// OperatorOf returns the operator of e, false when e is not an operator node.
func OperatorOf(e Expression) (Operator, bool) {
	oe, ok := e.(operatorExpression)
	if !ok || oe.node() == nil {
		return opInvalid, false
	}
	return oe.node().op, true
}

// Walk visits e and, for operator nodes, every operand depth-first,
// left to right. Returning false from visit stops the descent into that node.
func Walk(e Expression, visit func(Expression) bool) {
	if e == nil || !visit(e) {
		return
	}
	oe, ok := e.(operatorExpression)
	if !ok || oe.node() == nil {
		return
	}
	for _, operand := range oe.node().operands {
		Walk(operand, visit)
	}
}
