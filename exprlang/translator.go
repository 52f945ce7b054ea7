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

// Package exprlang translates infix expression text into expression trees.
//
// The text is parsed with the expr-lang/expr parser, so the usual expr syntax
// applies: arithmetic operators, function calls, member access and literals.
//
//	e, err := exprlang.Parse(`round(price * 1.1, 2)`)
//	// {"$round": [{"$multiply": ["$price", 1.1]}, 2]}
//
//	e, err = exprlang.Parse(`sin(angle, "degrees")`)
//	// {"$sin": {"$degreesToRadians": "$angle"}}
package exprlang

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/rulego/aggexpr/expr"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// binaryOperators maps infix operators to catalog entries
var binaryOperators = map[string]expr.Operator{
	"+":  expr.OpAdd,
	"-":  expr.OpSubtract,
	"*":  expr.OpMultiply,
	"/":  expr.OpDivide,
	"%":  expr.OpMod,
	"**": expr.OpPow,
	"^":  expr.OpPow,
}

// Option configures a Translator
type Option func(*Translator)

// WithVariables binds identifiers to literal values. Bound names render as
// their value instead of a field reference.
func WithVariables(vars map[string]any) Option {
	return func(t *Translator) {
		for k, v := range vars {
			t.vars[k] = v
		}
	}
}

// WithDecimalLiterals makes fractional number literals decimal.Decimal values
func WithDecimalLiterals() Option {
	return func(t *Translator) {
		t.decimals = true
	}
}

// Translator converts expression text into expr trees. It is immutable after
// construction and safe for concurrent use.
type Translator struct {
	vars     map[string]any
	decimals bool
}

// NewTranslator creates a translator
func NewTranslator(opts ...Option) *Translator {
	t := &Translator{vars: make(map[string]any)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTranslator = NewTranslator()

// Parse translates input with the default translator
func Parse(input string) (expr.Expression, error) {
	return defaultTranslator.Parse(input)
}

// MustParse is like Parse but panics on error
func MustParse(input string) expr.Expression {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

// Parse translates input. Errors are *expr.Error: SYNTAX for text the parser
// rejects or constructs with no aggregation equivalent, UNKNOWN_OPERATOR for
// unknown functions, and the catalog's arity and parameter errors.
func (t *Translator) Parse(input string) (expr.Expression, error) {
	if strings.TrimSpace(input) == "" {
		return nil, expr.NewError(expr.CodeSyntax, "", "empty expression")
	}
	tree, err := parser.Parse(input)
	if err != nil {
		return nil, &expr.Error{
			Code:     expr.CodeSyntax,
			Message:  "invalid expression",
			Position: -1,
			Err:      err,
		}
	}
	return t.translate(tree.Node)
}

func (t *Translator) translate(node ast.Node) (expr.Expression, error) {
	switch n := node.(type) {
	case *ast.NilNode:
		return expr.Value(nil), nil
	case *ast.BoolNode:
		return expr.Value(n.Value), nil
	case *ast.IntegerNode:
		return expr.Value(n.Value), nil
	case *ast.FloatNode:
		return t.float(n.Value), nil
	case *ast.StringNode:
		return expr.Value(n.Value), nil
	case *ast.ConstantNode:
		return expr.Value(n.Value), nil
	case *ast.IdentifierNode:
		if v, ok := t.vars[n.Value]; ok {
			return expr.Value(v), nil
		}
		return expr.Field(n.Value), nil
	case *ast.MemberNode, *ast.ChainNode:
		path, err := memberPath(node)
		if err != nil {
			return nil, err
		}
		return expr.Field(path), nil
	case *ast.UnaryNode:
		return t.unary(n)
	case *ast.BinaryNode:
		return t.binary(n)
	case *ast.CallNode:
		callee, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return nil, expr.NewError(expr.CodeSyntax, "", "unsupported call target %T", n.Callee)
		}
		return t.call(callee.Value, n.Arguments)
	case *ast.BuiltinNode:
		return t.call(n.Name, n.Arguments)
	}
	return nil, expr.NewError(expr.CodeSyntax, "", "unsupported construct %T", node)
}

func (t *Translator) float(v float64) expr.Literal {
	if t.decimals {
		return expr.Value(decimal.NewFromFloat(v))
	}
	return expr.Value(v)
}

func (t *Translator) unary(n *ast.UnaryNode) (expr.Expression, error) {
	switch n.Operator {
	case "+":
		return t.translate(n.Node)
	case "-":
		// 负数字面量直接取反
		switch v := n.Node.(type) {
		case *ast.IntegerNode:
			return expr.Value(-v.Value), nil
		case *ast.FloatNode:
			return t.float(-v.Value), nil
		}
		operand, err := t.translate(n.Node)
		if err != nil {
			return nil, err
		}
		return expr.NewNode(expr.OpMultiply, []expr.Expression{expr.Value(-1), operand})
	}
	return nil, expr.NewError(expr.CodeUnknownOperator, n.Operator, "unsupported unary operator")
}

func (t *Translator) binary(n *ast.BinaryNode) (expr.Expression, error) {
	op, ok := binaryOperators[n.Operator]
	if !ok {
		return nil, expr.NewError(expr.CodeUnknownOperator, n.Operator, "unsupported binary operator")
	}
	left, err := t.translate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := t.translate(n.Right)
	if err != nil {
		return nil, err
	}

	// a + b + c 合并为一个 $add
	if op == expr.OpAdd || op == expr.OpMultiply {
		if lop, ok := expr.OperatorOf(left); ok && lop == op {
			if ln, ok := left.(*expr.Node); ok {
				return expr.NewNode(op, append(ln.Operands(), right))
			}
		}
	}
	return expr.NewNode(op, []expr.Expression{left, right})
}

func (t *Translator) call(name string, args []ast.Node) (expr.Expression, error) {
	op, ok := expr.LookupOperator(name)
	if !ok {
		return nil, expr.NewError(expr.CodeUnknownOperator, name, "unknown function")
	}

	var opts []expr.NodeOption
	operandNodes := args
	last := len(args) - 1

	switch {
	case op.Class() == expr.ArityTrigonometric && len(args) == 2:
		unit, err := stringArg(op, args[last], "angular unit")
		if err != nil {
			return nil, err
		}
		u, err := expr.ParseAngularUnit(unit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, expr.WithAngularUnit(u))
		operandNodes = args[:last]
	case op == expr.OpExpMovingAvg && len(args) == 2:
		opt, err := smoothing(args[last])
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
		operandNodes = args[:last]
	case op.Class() == expr.ArityWindowed && len(args) == 2:
		unit, err := stringArg(op, args[last], "window unit")
		if err != nil {
			return nil, err
		}
		u, err := expr.ParseWindowUnit(unit)
		if err != nil {
			return nil, err
		}
		opts = append(opts, expr.WithWindowUnit(u))
		operandNodes = args[:last]
	}

	operands := make([]expr.Expression, 0, len(operandNodes))
	for _, arg := range operandNodes {
		e, err := t.translate(arg)
		if err != nil {
			return nil, err
		}
		operands = append(operands, e)
	}
	return expr.NewNode(op, operands, opts...)
}

func stringArg(op expr.Operator, node ast.Node, what string) (string, error) {
	s, ok := node.(*ast.StringNode)
	if !ok {
		return "", expr.NewError(expr.CodeInvalidParameter, op.Name(), "%s must be a string literal", what)
	}
	return s.Value, nil
}

// smoothing reads the second expMovingAvg argument: an integer is N, a
// fraction is alpha.
func smoothing(node ast.Node) (expr.NodeOption, error) {
	switch v := node.(type) {
	case *ast.IntegerNode:
		return expr.WithN(v.Value), nil
	case *ast.FloatNode:
		if v.Value >= 1 && v.Value == float64(cast.ToInt64(v.Value)) {
			return expr.WithN(cast.ToInt(v.Value)), nil
		}
		return expr.WithAlpha(v.Value), nil
	}
	return nil, expr.NewError(expr.CodeInvalidParameter, expr.OpExpMovingAvg.Name(), "smoothing must be a number literal")
}

// memberPath flattens a.b[0].c into "a.b.0.c"
func memberPath(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, nil
	case *ast.ChainNode:
		return memberPath(n.Node)
	case *ast.MemberNode:
		base, err := memberPath(n.Node)
		if err != nil {
			return "", err
		}
		switch p := n.Property.(type) {
		case *ast.StringNode:
			return base + "." + p.Value, nil
		case *ast.IntegerNode:
			return fmt.Sprintf("%s.%d", base, p.Value), nil
		}
		return "", expr.NewError(expr.CodeSyntax, "", "unsupported member property %T", n.Property)
	}
	return "", expr.NewError(expr.CodeSyntax, "", "unsupported member access %T", node)
}
