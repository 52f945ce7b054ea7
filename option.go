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

package aggexpr

import (
	"io"

	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/logger"
	"github.com/rulego/aggexpr/types"
)

// Option 表示对渲染器默认行为的修改配置。
type Option func(*Renderer)

// WithLogger 设置自定义日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	r, _ := aggexpr.New(aggexpr.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// WithLogLevel 设置日志级别，覆盖配置中的 logLevel。
func WithLogLevel(level logger.Level) Option {
	return func(r *Renderer) {
		r.config.LogLevel = level.String()
		if r.log != nil {
			r.log.SetLevel(level)
		}
	}
}

// WithLogOutput 将日志输出到指定目标，级别取自配置中的 logLevel。
//
// 示例:
//
//	r, _ := aggexpr.New(aggexpr.WithLogLevel(logger.WARN), aggexpr.WithLogOutput(os.Stderr))
func WithLogOutput(output io.Writer) Option {
	return func(r *Renderer) {
		r.log = nil
		r.logOutput = output
	}
}

// WithDiscardLog 禁用所有日志输出。
func WithDiscardLog() Option {
	return func(r *Renderer) {
		r.log = logger.NewDiscardLogger()
	}
}

// WithConfig 使用完整配置替换默认配置。
// 之后的选项仍可覆盖其中的单项设置。
func WithConfig(config types.Config) Option {
	return func(r *Renderer) {
		r.config = config
	}
}

// WithContext 设置渲染上下文，覆盖配置中的 context 部分。
func WithContext(ctx expr.Context) Option {
	return func(r *Renderer) {
		r.ctx = ctx
	}
}

// WithCanonical 输出规范扩展JSON（数字带类型包装）。
func WithCanonical() Option {
	return func(r *Renderer) {
		r.config.Canonical = true
	}
}

// WithIndent 设置JSON缩进。
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.config.Indent = indent
	}
}
