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

// Operator identifies an entry of the operator catalog
type Operator int

const (
	opInvalid Operator = iota

	// 算术运算
	OpAbs
	OpAdd
	OpCeil
	OpDivide
	OpExp
	OpFloor
	OpLn
	OpLog
	OpLog10
	OpMod
	OpMultiply
	OpPow
	OpSqrt
	OpSubtract
	OpTrunc
	OpRound

	// 累加器
	OpSum
	OpAvg
	OpMax
	OpMin
	OpStdDevPop
	OpStdDevSamp

	// 窗口运算
	OpCovariancePop
	OpCovarianceSamp
	OpExpMovingAvg
	OpDerivative
	OpIntegral

	// 三角函数
	OpSin
	OpSinh
	OpCos
	OpCosh
	OpTan
	OpTanh
	OpASin
	OpASinh
	OpACos
	OpACosh
	OpATan
	OpATanh
	OpATan2
	OpDegreesToRadians
	OpRadiansToDegrees

	opCount
)

// ArityClass groups operators by the operands and parameters they accept
type ArityClass int

const (
	// ArityUnary exactly one operand
	ArityUnary ArityClass = iota + 1
	// ArityUnaryWithPlace one operand and an optional place operand
	ArityUnaryWithPlace
	// ArityBinary exactly two operands
	ArityBinary
	// ArityVariadic two or more operands
	ArityVariadic
	// ArityAccumulator one or more operands
	ArityAccumulator
	// ArityTrigonometric one operand and an optional angular unit
	ArityTrigonometric
	// ArityWindowed one operand plus window parameters, only valid in $setWindowFields
	ArityWindowed
)

func (c ArityClass) String() string {
	switch c {
	case ArityUnary:
		return "unary"
	case ArityUnaryWithPlace:
		return "unary-with-optional-place"
	case ArityBinary:
		return "binary"
	case ArityVariadic:
		return "variadic"
	case ArityAccumulator:
		return "accumulator"
	case ArityTrigonometric:
		return "trigonometric"
	case ArityWindowed:
		return "windowed"
	default:
		return "unknown"
	}
}

// bounds returns the accepted operand count, hi -1 means unbounded
func (c ArityClass) bounds() (lo, hi int) {
	switch c {
	case ArityUnary, ArityTrigonometric, ArityWindowed:
		return 1, 1
	case ArityUnaryWithPlace:
		return 1, 2
	case ArityBinary:
		return 2, 2
	case ArityVariadic:
		return 2, -1
	case ArityAccumulator:
		return 1, -1
	}
	return 0, 0
}

// Shape is the document layout an operator renders to
type Shape int

const (
	// ShapeValue {"$op": a}
	ShapeValue Shape = iota + 1
	// ShapeList {"$op": [a, b, ...]}
	ShapeList
	// ShapeAccumulator {"$op": a} for one operand, a list otherwise
	ShapeAccumulator
	// ShapeTrigonometric {"$op": a}, a wrapped in $degreesToRadians for degrees
	ShapeTrigonometric
	// ShapeKeyed {"$op": {"input": a, ...parameters}}
	ShapeKeyed
)

type operatorInfo struct {
	name  string
	class ArityClass
	shape Shape
	// windowOnly operators must be rendered inside $setWindowFields
	windowOnly bool
	// sortRequired windowed operators need a sortBy on the window stage
	sortRequired bool
}

var catalog = [opCount]operatorInfo{
	OpAbs:      {name: "abs", class: ArityUnary, shape: ShapeValue},
	OpAdd:      {name: "add", class: ArityVariadic, shape: ShapeList},
	OpCeil:     {name: "ceil", class: ArityUnary, shape: ShapeValue},
	OpDivide:   {name: "divide", class: ArityBinary, shape: ShapeList},
	OpExp:      {name: "exp", class: ArityUnary, shape: ShapeValue},
	OpFloor:    {name: "floor", class: ArityUnary, shape: ShapeValue},
	OpLn:       {name: "ln", class: ArityUnary, shape: ShapeValue},
	OpLog:      {name: "log", class: ArityBinary, shape: ShapeList},
	OpLog10:    {name: "log10", class: ArityUnary, shape: ShapeValue},
	OpMod:      {name: "mod", class: ArityBinary, shape: ShapeList},
	OpMultiply: {name: "multiply", class: ArityVariadic, shape: ShapeList},
	OpPow:      {name: "pow", class: ArityBinary, shape: ShapeList},
	OpSqrt:     {name: "sqrt", class: ArityUnary, shape: ShapeValue},
	OpSubtract: {name: "subtract", class: ArityBinary, shape: ShapeList},
	OpTrunc:    {name: "trunc", class: ArityUnary, shape: ShapeValue},
	OpRound:    {name: "round", class: ArityUnaryWithPlace, shape: ShapeList},

	OpSum:        {name: "sum", class: ArityAccumulator, shape: ShapeAccumulator},
	OpAvg:        {name: "avg", class: ArityAccumulator, shape: ShapeAccumulator},
	OpMax:        {name: "max", class: ArityAccumulator, shape: ShapeAccumulator},
	OpMin:        {name: "min", class: ArityAccumulator, shape: ShapeAccumulator},
	OpStdDevPop:  {name: "stdDevPop", class: ArityAccumulator, shape: ShapeAccumulator},
	OpStdDevSamp: {name: "stdDevSamp", class: ArityAccumulator, shape: ShapeAccumulator},

	OpCovariancePop:  {name: "covariancePop", class: ArityBinary, shape: ShapeList, windowOnly: true},
	OpCovarianceSamp: {name: "covarianceSamp", class: ArityBinary, shape: ShapeList, windowOnly: true},
	OpExpMovingAvg:   {name: "expMovingAvg", class: ArityWindowed, shape: ShapeKeyed, windowOnly: true, sortRequired: true},
	OpDerivative:     {name: "derivative", class: ArityWindowed, shape: ShapeKeyed, windowOnly: true, sortRequired: true},
	OpIntegral:       {name: "integral", class: ArityWindowed, shape: ShapeKeyed, windowOnly: true, sortRequired: true},

	OpSin:              {name: "sin", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpSinh:             {name: "sinh", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpCos:              {name: "cos", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpCosh:             {name: "cosh", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpTan:              {name: "tan", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpTanh:             {name: "tanh", class: ArityTrigonometric, shape: ShapeTrigonometric},
	OpASin:             {name: "asin", class: ArityUnary, shape: ShapeValue},
	OpASinh:            {name: "asinh", class: ArityUnary, shape: ShapeValue},
	OpACos:             {name: "acos", class: ArityUnary, shape: ShapeValue},
	OpACosh:            {name: "acosh", class: ArityUnary, shape: ShapeValue},
	OpATan:             {name: "atan", class: ArityUnary, shape: ShapeValue},
	OpATanh:            {name: "atanh", class: ArityUnary, shape: ShapeValue},
	OpATan2:            {name: "atan2", class: ArityBinary, shape: ShapeList},
	OpDegreesToRadians: {name: "degreesToRadians", class: ArityUnary, shape: ShapeValue},
	OpRadiansToDegrees: {name: "radiansToDegrees", class: ArityUnary, shape: ShapeValue},
}

// byName is the case-insensitive reverse index of the catalog
var byName = func() map[string]Operator {
	m := make(map[string]Operator, len(catalog))
	for op := opInvalid + 1; op < opCount; op++ {
		m[strings.ToLower(catalog[op].name)] = op
	}
	return m
}()

// Valid reports whether op is a catalog entry
func (op Operator) Valid() bool {
	return op > opInvalid && op < opCount
}

func (op Operator) info() operatorInfo {
	if !op.Valid() {
		return operatorInfo{}
	}
	return catalog[op]
}

// Name returns the operator name without the "$" prefix, e.g. "round"
func (op Operator) Name() string {
	return op.info().name
}

// Token returns the wire key, e.g. "$round"
func (op Operator) Token() string {
	if !op.Valid() {
		return ""
	}
	return "$" + catalog[op].name
}

func (op Operator) String() string {
	if !op.Valid() {
		return "invalid"
	}
	return op.Name()
}

// Class returns the declared arity class
func (op Operator) Class() ArityClass {
	return op.info().class
}

// Shape returns the render shape
func (op Operator) Shape() Shape {
	return op.info().shape
}

// WindowOnly reports whether op is only valid as a $setWindowFields output
func (op Operator) WindowOnly() bool {
	return op.info().windowOnly
}

// RequiresSort reports whether op needs the window stage to declare a sortBy
func (op Operator) RequiresSort() bool {
	return op.info().sortRequired
}

// LookupOperator resolves a case-insensitive name, with or without the "$"
// prefix, to its catalog entry.
func LookupOperator(name string) (Operator, bool) {
	op, ok := byName[strings.ToLower(strings.TrimPrefix(name, "$"))]
	return op, ok
}

// Operators lists the whole catalog in declaration order
func Operators() []Operator {
	ops := make([]Operator, 0, int(opCount)-1)
	for op := opInvalid + 1; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}
