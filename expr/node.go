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
	"math"

	"github.com/rulego/aggexpr/document"
)

// Node is an operator applied to an ordered list of operands.
// Nodes are immutable; modifiers return a copy. Obtain nodes from NewNode or
// the builder functions, a zero Node cannot be rendered.
type Node struct {
	op       Operator
	operands []Expression

	angular  AngularUnit
	unit     WindowUnit
	n        int
	alpha    float64
	hasN     bool
	hasAlpha bool
}

func (*Node) isExpression() {}

func (n *Node) node() *Node { return n }

// NodeOption sets an operator parameter on NewNode
type NodeOption func(*Node)

// WithAngularUnit sets the unit of a trigonometric operand
func WithAngularUnit(u AngularUnit) NodeOption {
	return func(n *Node) { n.angular = u }
}

// WithWindowUnit sets the unit of a derivative or integral
func WithWindowUnit(u WindowUnit) NodeOption {
	return func(n *Node) { n.unit = u }
}

// WithN sets the number of historical documents of an expMovingAvg
func WithN(count int) NodeOption {
	return func(n *Node) {
		n.n = count
		n.hasN = true
	}
}

// WithAlpha sets the decay of an expMovingAvg
func WithAlpha(alpha float64) NodeOption {
	return func(n *Node) {
		n.alpha = alpha
		n.hasAlpha = true
	}
}

// NewNode builds an operator node and checks it against the operator's arity
// class. Operand count errors match ErrInvalidArity, nil operands
// ErrInvalidOperand, parameters the operator does not take
// ErrInvalidParameter and undeclared units ErrInvalidUnit.
func NewNode(op Operator, operands []Expression, opts ...NodeOption) (*Node, error) {
	n := &Node{
		op:       op,
		operands: append([]Expression(nil), operands...),
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// mustNode is used by the builder surface, whose signatures already fix the
// operand count. Remaining failures are caller errors such as nil operands.
func mustNode(op Operator, operands []Expression, opts ...NodeOption) *Node {
	n, err := NewNode(op, operands, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) validate() error {
	if !n.op.Valid() {
		return NewError(CodeUnknownOperator, "", "operator id %d is not in the catalog", int(n.op))
	}
	name := n.op.Name()
	class := n.op.Class()

	lo, hi := class.bounds()
	count := len(n.operands)
	if count < lo || (hi >= 0 && count > hi) {
		return arityError(name, class, lo, hi, count)
	}
	for i, operand := range n.operands {
		if isNilExpression(operand) {
			return NewError(CodeInvalidOperand, name, "operand %d is nil", i)
		}
	}

	if n.op == OpRound && count == 2 {
		if lit, ok := n.operands[1].(Literal); ok && !isIntegerLiteral(lit.Value) {
			return NewError(CodeInvalidOperand, name, "place must be an integer or an expression, got %T", lit.Value)
		}
	}

	if !n.angular.Valid() {
		return NewError(CodeInvalidUnit, name, "undeclared angular unit %d", int(n.angular))
	}
	if n.angular != AngularUnset && class != ArityTrigonometric {
		return NewError(CodeInvalidParameter, name, "does not take an angular unit")
	}

	if !n.unit.Valid() {
		return NewError(CodeInvalidUnit, name, "undeclared window unit %d", int(n.unit))
	}
	if n.unit != WindowUnitUnset && n.op != OpDerivative && n.op != OpIntegral {
		return NewError(CodeInvalidParameter, name, "does not take a window unit")
	}

	if n.op == OpExpMovingAvg {
		switch {
		case n.hasN == n.hasAlpha:
			return NewError(CodeInvalidParameter, name, "requires exactly one of N or alpha")
		case n.hasN && n.n <= 0:
			return NewError(CodeInvalidParameter, name, "N must be positive, got %d", n.n)
		case n.hasAlpha && (n.alpha <= 0 || n.alpha >= 1):
			return NewError(CodeInvalidParameter, name, "alpha must be in (0, 1), got %v", n.alpha)
		}
	} else if n.hasN || n.hasAlpha {
		return NewError(CodeInvalidParameter, name, "does not take N or alpha")
	}
	return nil
}

func arityError(name string, class ArityClass, lo, hi, got int) *Error {
	switch {
	case hi < 0:
		return NewError(CodeInvalidArity, name, "%s operator requires at least %d operands, got %d", class, lo, got)
	case lo == hi:
		return NewError(CodeInvalidArity, name, "%s operator requires exactly %d operands, got %d", class, lo, got)
	default:
		return NewError(CodeInvalidArity, name, "%s operator accepts %d to %d operands, got %d", class, lo, hi, got)
	}
}

// isIntegerLiteral accepts Go integers, integral floats and decimal-like
// values reporting IsInteger.
func isIntegerLiteral(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		f := float64(x)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case float64:
		return !math.IsInf(x, 0) && x == math.Trunc(x)
	case interface{ IsInteger() bool }:
		return x.IsInteger()
	}
	return false
}

func isNilExpression(e Expression) bool {
	switch v := e.(type) {
	case nil:
		return true
	case ExpressionFunc:
		return v == nil
	case operatorExpression:
		return v.node() == nil
	}
	return false
}

// clone copies n including its operand slice
func (n *Node) clone() *Node {
	c := *n
	c.operands = append([]Expression(nil), n.operands...)
	return &c
}

// checked panics when a modifier produced an invalid node
func checked(n *Node) *Node {
	if err := n.validate(); err != nil {
		panic(err)
	}
	return n
}

// Operator returns the operator id
func (n *Node) Operator() Operator {
	return n.op
}

// Operands returns a copy of the operands in order
func (n *Node) Operands() []Expression {
	return append([]Expression(nil), n.operands...)
}

// AngularUnit returns the angular unit, AngularUnset when none was given
func (n *Node) AngularUnit() AngularUnit {
	return n.angular
}

// WindowUnit returns the window unit, WindowUnitUnset when none was given
func (n *Node) WindowUnit() WindowUnit {
	return n.unit
}

// N returns the expMovingAvg document count
func (n *Node) N() (int, bool) {
	return n.n, n.hasN
}

// Alpha returns the expMovingAvg decay
func (n *Node) Alpha() (float64, bool) {
	return n.alpha, n.hasAlpha
}

// ToDocument renders the node against ctx
func (n *Node) ToDocument(ctx Context) document.D {
	if ctx == nil {
		ctx = DefaultContext
	}
	return n.render(ctx)
}
