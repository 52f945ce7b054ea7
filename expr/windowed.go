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

// Windowed is a $derivative or $integral node
type Windowed struct {
	*Node
}

// Unit sets the time unit of the result
func (w Windowed) Unit(unit WindowUnit) Windowed {
	n := w.clone()
	n.unit = unit
	return Windowed{checked(n)}
}

// IsWindowOnly reports whether e contains an operator that is only valid as a
// $setWindowFields output.
func IsWindowOnly(e Expression) bool {
	found := false
	Walk(e, func(x Expression) bool {
		if op, ok := OperatorOf(x); ok && op.WindowOnly() {
			found = true
		}
		return !found
	})
	return found
}

// RequiresSort reports whether e contains an operator that needs the window
// stage to sort its documents.
func RequiresSort(e Expression) bool {
	found := false
	Walk(e, func(x Expression) bool {
		if op, ok := OperatorOf(x); ok && op.RequiresSort() {
			found = true
		}
		return !found
	})
	return found
}
