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

import "strings"

// AngularUnit is the unit an angle operand is expressed in.
// The zero value AngularUnset is distinct from an explicit Radians even
// though both render without conversion.
type AngularUnit int

const (
	AngularUnset AngularUnit = iota
	Radians
	Degrees
)

var angularTokens = map[AngularUnit]string{
	Radians: "radians",
	Degrees: "degrees",
}

// String returns the unit token, or "unset".
func (u AngularUnit) String() string {
	if token, ok := angularTokens[u]; ok {
		return token
	}
	if u == AngularUnset {
		return "unset"
	}
	return "unknown"
}

// Valid reports whether u is one of the declared units, including unset.
func (u AngularUnit) Valid() bool {
	_, ok := angularTokens[u]
	return ok || u == AngularUnset
}

// ParseAngularUnit maps "radians" or "degrees" (case-insensitive) to a unit.
func ParseAngularUnit(token string) (AngularUnit, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for unit, name := range angularTokens {
		if name == t {
			return unit, nil
		}
	}
	return AngularUnset, NewError(CodeInvalidUnit, "", "unknown angular unit %q", token)
}

// WindowUnit is the time unit of derivative and integral results and of
// range window bounds.
type WindowUnit int

const (
	WindowUnitUnset WindowUnit = iota
	UnitWeek
	UnitDay
	UnitHour
	UnitMinute
	UnitSecond
	UnitMillisecond
)

// windowTokens maps units to their wire tokens
var windowTokens = map[WindowUnit]string{
	UnitWeek:        "week",
	UnitDay:         "day",
	UnitHour:        "hour",
	UnitMinute:      "minute",
	UnitSecond:      "second",
	UnitMillisecond: "millisecond",
}

// Token returns the wire token, empty for the unset unit.
func (u WindowUnit) Token() string {
	return windowTokens[u]
}

func (u WindowUnit) String() string {
	if token, ok := windowTokens[u]; ok {
		return token
	}
	if u == WindowUnitUnset {
		return "unset"
	}
	return "unknown"
}

// Valid reports whether u is one of the declared units, including unset.
func (u WindowUnit) Valid() bool {
	_, ok := windowTokens[u]
	return ok || u == WindowUnitUnset
}

// ParseWindowUnit maps a token such as "hour" (case-insensitive) to a unit.
func ParseWindowUnit(token string) (WindowUnit, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for unit, name := range windowTokens {
		if name == t {
			return unit, nil
		}
	}
	return WindowUnitUnset, NewError(CodeInvalidUnit, "", "unknown window unit %q", token)
}
