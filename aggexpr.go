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
	"fmt"
	"io"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/exprlang"
	"github.com/rulego/aggexpr/logger"
	"github.com/rulego/aggexpr/pipeline"
	"github.com/rulego/aggexpr/types"
)

// Renderer 是表达式渲染的主要入口。
// 它组合了文本翻译、上下文解析与扩展JSON输出。
//
// 使用示例:
//
//	r, err := aggexpr.New(aggexpr.WithIndent("  "))
//	out, err := r.RenderString(`round(price * 1.1, 2)`)
//	fmt.Println(string(out))
type Renderer struct {
	config     types.Config
	log        logger.Logger
	logOutput  io.Writer
	ctx        expr.Context
	translator *exprlang.Translator
}

// New 创建渲染器。配置在所有选项应用后校验。
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{config: types.NewConfig()}
	for _, option := range options {
		option(r)
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	switch {
	case r.log != nil:
	case r.logOutput != nil:
		r.log = logger.NewLogger(r.config.Level(), r.logOutput)
	default:
		// 全局默认日志器共享级别，会影响其他使用默认日志器的包
		r.log = logger.GetDefault()
		r.log.SetLevel(r.config.Level())
	}
	if r.ctx == nil {
		r.ctx = r.config.RenderContext()
	}

	var topts []exprlang.Option
	if len(r.config.Variables) > 0 {
		topts = append(topts, exprlang.WithVariables(r.config.Variables))
	}
	if r.config.DecimalLiterals {
		topts = append(topts, exprlang.WithDecimalLiterals())
	}
	r.translator = exprlang.NewTranslator(topts...)

	r.log.Debug("renderer created: canonical=%t root=%t", r.config.Canonical, r.ctx.IsRootStage())
	return r, nil
}

// Config returns the effective configuration
func (r *Renderer) Config() types.Config {
	return r.config
}

// Context returns the context expressions are rendered against
func (r *Renderer) Context() expr.Context {
	return r.ctx
}

// Render compiles e against the renderer context
func (r *Renderer) Render(e expr.Expression) any {
	return expr.Render(e, r.ctx)
}

// RenderJSON compiles e and encodes it with the configured JSON options
func (r *Renderer) RenderJSON(e expr.Expression) ([]byte, error) {
	b, err := r.marshal(r.Render(e))
	if err != nil {
		return nil, err
	}
	r.log.Debug("rendered %s", b)
	return b, nil
}

// Translate parses expression text into an expression tree
func (r *Renderer) Translate(text string) (expr.Expression, error) {
	e, err := r.translator.Parse(text)
	if err != nil {
		r.log.Warn("translate %q: %v", text, err)
		return nil, err
	}
	return e, nil
}

// RenderString translates text and renders the result as JSON
func (r *Renderer) RenderString(text string) ([]byte, error) {
	e, err := r.Translate(text)
	if err != nil {
		return nil, err
	}
	return r.RenderJSON(e)
}

// Pipeline builds a pipeline logging through the renderer logger
func (r *Renderer) Pipeline(stages ...pipeline.Stage) (*pipeline.Pipeline, error) {
	p, err := pipeline.New(stages...)
	if err != nil {
		return nil, err
	}
	return p.WithLogger(logger.Named(r.log, "pipeline")), nil
}

// RenderPipelineJSON renders every stage of p against the renderer context
// and encodes them as a JSON array.
func (r *Renderer) RenderPipelineJSON(p *pipeline.Pipeline) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("aggexpr: nil pipeline")
	}
	return r.marshal(p.Render(r.ctx))
}

func (r *Renderer) marshal(v any) ([]byte, error) {
	opts := []document.MarshalOption{document.Canonical(r.config.Canonical)}
	if r.config.Indent != "" {
		opts = append(opts, document.Indent(r.config.Indent))
	}
	return document.Marshal(v, opts...)
}
