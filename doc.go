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
Package aggexpr 构建聚合管道中的算术与三角表达式，并渲染为有序文档。

表达式通过类型安全的构建器创建，在构建时校验操作数个数，渲染时根据上下文解析字段引用。
同一棵表达式树可以在不同的上下文中多次渲染。

# 核心特性

• 封闭的操作符目录 - 算术、累加器、窗口与三角函数，按参数类别校验
• 上下文解析 - $group 之后的字段自动映射到 _id
• 窗口阶段 - $setWindowFields 及排序约束检查
• 文本表达式 - 基于 expr-lang 解析 `round(price * 1.1, 2)` 这样的文本
• 扩展JSON - 保持键顺序，支持 relaxed 与 canonical 两种格式

# 入门示例

	package main

	import (
		"fmt"

		"github.com/rulego/aggexpr"
		"github.com/rulego/aggexpr/expr"
	)

	func main() {
		r, err := aggexpr.New(aggexpr.WithDiscardLog())
		if err != nil {
			panic(err)
		}

		// {"$round": ["$field", 3]}
		out, _ := r.RenderJSON(expr.ValueOf("field").RoundToPlace(3))
		fmt.Println(string(out))

		// {"$sin": {"$degreesToRadians": "$angle"}}
		out, _ = r.RenderString(`sin(angle, "degrees")`)
		fmt.Println(string(out))
	}

# 管道

	p, err := r.Pipeline(
		pipeline.Group("state").Sum("totalPop", "pop"),
		pipeline.Project("state", "totalPop").ExcludeID(),
	)
	out, err := r.RenderPipelineJSON(p)
	// [{"$group": {"_id": "$state", "totalPop": {"$sum": "$pop"}}},
	//  {"$project": {"_id": 0, "state": "$_id", "totalPop": 1}}]

# 配置

日志、输出格式与渲染上下文可以通过选项或 types.Config 设置：

	cfg, err := types.LoadConfig(file)
	r, err := aggexpr.New(aggexpr.WithConfig(cfg), aggexpr.WithLogLevel(logger.DEBUG))
*/
package aggexpr
