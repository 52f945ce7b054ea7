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
Package window builds $setWindowFields stages.

Windowed operators such as $derivative, $integral and $expMovingAvg, and the
window-only $covariancePop and $covarianceSamp, can only be evaluated as
outputs of a $setWindowFields stage. This package assembles that stage and
checks the constraints the server would otherwise reject at run time.

# Bounds

Two kinds of window bounds are supported:

• Documents - position based, bounds are integers, "current" or "unbounded"
• Range - value based on the sort key, with an optional time unit

	// running total over all preceding documents
	window.Documents(window.Unbounded, window.Current)

	// the last 10 hours, sort key must be a date
	window.Range(-10, 0).Unit(expr.UnitHour)

Bounds can also be built from configuration:

	b, err := window.NewBounds(window.BoundsConfig{Type: "range", Lower: -10, Upper: 0, Unit: "hour"})

# Stage

	stage, err := window.SetWindowFields().
		PartitionByField("state").
		SortBy(pipeline.Asc("date")).
		OutputWithin("speed", expr.ValueOf("miles").Derivative().Unit(expr.UnitHour),
			window.Range(-1, 0).Unit(expr.UnitHour)).
		Build()

renders

	{"$setWindowFields": {
		"partitionBy": "$state",
		"sortBy": {"date": 1},
		"output": {"speed": {
			"$derivative": {"input": "$miles", "unit": "hour"},
			"window": {"range": [-1, 0], "unit": "hour"}}}}}

Building fails with expr.ErrWindowSortRequired when a sort-dependent operator
is used without SortBy. The stage keeps all upstream fields and exposes its
outputs, so it can be placed in a pipeline.Pipeline.
*/
package window
