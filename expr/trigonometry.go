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

// Trigonometric is a $sin, $cos, $tan or hyperbolic node. Its operand is in
// radians unless In(Degrees) is set.
type Trigonometric struct {
	*Node
}

// In sets the angular unit of the operand
func (t Trigonometric) In(unit AngularUnit) Trigonometric {
	n := t.clone()
	n.angular = unit
	return Trigonometric{checked(n)}
}

func (a Arithmetic) trig(op Operator) Trigonometric {
	return Trigonometric{a.unary(op)}
}

// Sin {"$sin": value}
func (a Arithmetic) Sin() Trigonometric { return a.trig(OpSin) }

// Sinh {"$sinh": value}
func (a Arithmetic) Sinh() Trigonometric { return a.trig(OpSinh) }

// Cos {"$cos": value}
func (a Arithmetic) Cos() Trigonometric { return a.trig(OpCos) }

// Cosh {"$cosh": value}
func (a Arithmetic) Cosh() Trigonometric { return a.trig(OpCosh) }

// Tan {"$tan": value}
func (a Arithmetic) Tan() Trigonometric { return a.trig(OpTan) }

// Tanh {"$tanh": value}
func (a Arithmetic) Tanh() Trigonometric { return a.trig(OpTanh) }

// ASin {"$asin": value}
func (a Arithmetic) ASin() *Node { return a.unary(OpASin) }

// ASinh {"$asinh": value}
func (a Arithmetic) ASinh() *Node { return a.unary(OpASinh) }

// ACos {"$acos": value}
func (a Arithmetic) ACos() *Node { return a.unary(OpACos) }

// ACosh {"$acosh": value}
func (a Arithmetic) ACosh() *Node { return a.unary(OpACosh) }

// ATan {"$atan": value}
func (a Arithmetic) ATan() *Node { return a.unary(OpATan) }

// ATanh {"$atanh": value}
func (a Arithmetic) ATanh() *Node { return a.unary(OpATanh) }

// ATan2 {"$atan2": [value, x]}
func (a Arithmetic) ATan2(x any) *Node { return a.binary(OpATan2, x) }

// DegreesToRadians {"$degreesToRadians": value}
func (a Arithmetic) DegreesToRadians() *Node { return a.unary(OpDegreesToRadians) }

// RadiansToDegrees {"$radiansToDegrees": value}
func (a Arithmetic) RadiansToDegrees() *Node { return a.unary(OpRadiansToDegrees) }
