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

/*
Package expr builds aggregation expressions and renders them into ordered
documents understood by the aggregation pipeline engine.

Expressions are immutable trees. Each builder call returns a new node and never
touches the one it was called on, so a sub-expression can be shared between
several larger expressions or pipeline stages. Rendering is a separate step
that takes a Context, so the same tree renders differently before and after a
$group stage.

# Expression Variants

	Literal         - any value, rendered unchanged
	FieldReference  - "$" + Context.Resolve(name)
	*Node           - an operator from the closed Operator catalog with its operands
	ExpressionFunc  - a caller supplied function of the Context

# Usage Examples

Rounding a field:

	e := expr.ValueOf("field").RoundToPlace(3)
	expr.Render(e, expr.DefaultContext)
	// {"$round": ["$field", 3]}

Trigonometry on an angle stored in degrees:

	e := expr.ValueOf("angle").Sin().In(expr.Degrees)
	// {"$sin": {"$degreesToRadians": "$angle"}}

Time derivative inside a window:

	e := expr.ValueOf("miles").Derivative().Unit(expr.UnitHour)
	// {"$derivative": {"input": "$miles", "unit": "hour"}}

Generic construction with validation:

	n, err := expr.NewNode(expr.OpSubtract, expr.Field("a"))
	// err is *expr.Error with code INVALID_ARITY, errors.Is(err, expr.ErrInvalidArity)

# Rendering Shapes

	value        {"$abs": a}
	list         {"$add": [a, b, ...]}
	accumulator  {"$sum": a} or {"$sum": [a, b, ...]}
	trig         {"$sin": a} or {"$sin": {"$degreesToRadians": a}}
	keyed        {"$integral": {"input": a, "unit": "hour"}}
*/
package expr
