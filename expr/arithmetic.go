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

// Arithmetic is the entry point of the builder surface. It holds the starting
// operand; every method returns a new operator node with that operand first.
// Arguments of type any go through Operand: pass Field("x") for a field
// reference, any other value is a literal.
//
// Builder methods panic with an *Error when given a nil operand, the same
// condition NewNode reports as ErrInvalidOperand.
type Arithmetic struct {
	value Expression
}

// ValueOf starts an expression from a field reference
func ValueOf(field string) Arithmetic {
	return Arithmetic{value: Field(field)}
}

// ValueOfExpression starts from an arbitrary expression
func ValueOfExpression(e Expression) Arithmetic {
	return Arithmetic{value: e}
}

// ValueOfValue starts from a literal such as 10 or decimal.RequireFromString("1.5")
func ValueOfValue(v any) Arithmetic {
	return Arithmetic{value: Value(v)}
}

func (a Arithmetic) unary(op Operator) *Node {
	return mustNode(op, []Expression{a.value})
}

func (a Arithmetic) binary(op Operator, other any) *Node {
	return mustNode(op, []Expression{a.value, Operand(other)})
}

// Abs {"$abs": value}
func (a Arithmetic) Abs() *Node { return a.unary(OpAbs) }

// Add {"$add": [value, other]}, extend with And
func (a Arithmetic) Add(other any) Nary { return Nary{a.binary(OpAdd, other)} }

// Ceil {"$ceil": value}
func (a Arithmetic) Ceil() *Node { return a.unary(OpCeil) }

// Divide {"$divide": [value, divisor]}
func (a Arithmetic) Divide(divisor any) *Node { return a.binary(OpDivide, divisor) }

// Exp {"$exp": value}
func (a Arithmetic) Exp() *Node { return a.unary(OpExp) }

// Floor {"$floor": value}
func (a Arithmetic) Floor() *Node { return a.unary(OpFloor) }

// Ln {"$ln": value}
func (a Arithmetic) Ln() *Node { return a.unary(OpLn) }

// Log {"$log": [value, base]}
func (a Arithmetic) Log(base any) *Node { return a.binary(OpLog, base) }

// Log10 {"$log10": value}
func (a Arithmetic) Log10() *Node { return a.unary(OpLog10) }

// Mod {"$mod": [value, divisor]}
func (a Arithmetic) Mod(divisor any) *Node { return a.binary(OpMod, divisor) }

// Multiply {"$multiply": [value, other]}, extend with And
func (a Arithmetic) Multiply(other any) Nary { return Nary{a.binary(OpMultiply, other)} }

// Pow {"$pow": [value, exponent]}
func (a Arithmetic) Pow(exponent any) *Node { return a.binary(OpPow, exponent) }

// Sqrt {"$sqrt": value}
func (a Arithmetic) Sqrt() *Node { return a.unary(OpSqrt) }

// Subtract {"$subtract": [value, other]}
func (a Arithmetic) Subtract(other any) *Node { return a.binary(OpSubtract, other) }

// Trunc {"$trunc": value}
func (a Arithmetic) Trunc() *Node { return a.unary(OpTrunc) }

// Round {"$round": [value]}, add a place with Round.Place
func (a Arithmetic) Round() Round { return Round{a.unary(OpRound)} }

// RoundToPlace {"$round": [value, place]}
func (a Arithmetic) RoundToPlace(place int) Round { return a.Round().Place(place) }

// Sum {"$sum": value}
func (a Arithmetic) Sum() Nary { return Nary{a.unary(OpSum)} }

// Avg {"$avg": value}
func (a Arithmetic) Avg() Nary { return Nary{a.unary(OpAvg)} }

// Max {"$max": value}
func (a Arithmetic) Max() Nary { return Nary{a.unary(OpMax)} }

// Min {"$min": value}
func (a Arithmetic) Min() Nary { return Nary{a.unary(OpMin)} }

// StdDevPop {"$stdDevPop": value}
func (a Arithmetic) StdDevPop() Nary { return Nary{a.unary(OpStdDevPop)} }

// StdDevSamp {"$stdDevSamp": value}
func (a Arithmetic) StdDevSamp() Nary { return Nary{a.unary(OpStdDevSamp)} }

// CovariancePop {"$covariancePop": [value, other]}; window stage only
func (a Arithmetic) CovariancePop(other any) *Node { return a.binary(OpCovariancePop, other) }

// CovarianceSamp {"$covarianceSamp": [value, other]}; window stage only
func (a Arithmetic) CovarianceSamp(other any) *Node { return a.binary(OpCovarianceSamp, other) }

// ExpMovingAvgN {"$expMovingAvg": {"input": value, "N": n}}; panics if n <= 0
func (a Arithmetic) ExpMovingAvgN(n int) *Node {
	return mustNode(OpExpMovingAvg, []Expression{a.value}, WithN(n))
}

// ExpMovingAvgAlpha {"$expMovingAvg": {"input": value, "alpha": alpha}};
// panics unless 0 < alpha < 1
func (a Arithmetic) ExpMovingAvgAlpha(alpha float64) *Node {
	return mustNode(OpExpMovingAvg, []Expression{a.value}, WithAlpha(alpha))
}

// Derivative {"$derivative": {"input": value}}, add a unit with Windowed.Unit
func (a Arithmetic) Derivative() Windowed { return Windowed{a.unary(OpDerivative)} }

// Integral {"$integral": {"input": value}}, add a unit with Windowed.Unit
func (a Arithmetic) Integral() Windowed { return Windowed{a.unary(OpIntegral)} }

// Round is a $round node
type Round struct {
	*Node
}

// Place sets the number of decimal places, a literal or an expression.
// Calling it again replaces the previous place.
func (r Round) Place(place any) Round {
	n := r.clone()
	n.operands = []Expression{r.operands[0], Operand(place)}
	return Round{checked(n)}
}

// PlaceOf reads the number of decimal places from a field
func (r Round) PlaceOf(field string) Round {
	return r.Place(Field(field))
}

// Nary is a node whose operand list can be extended: $add, $multiply and the
// accumulators.
type Nary struct {
	*Node
}

// And appends an operand
func (n Nary) And(other any) Nary {
	c := n.clone()
	c.operands = append(c.operands, Operand(other))
	return Nary{checked(c)}
}
