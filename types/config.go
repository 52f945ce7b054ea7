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

package types

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/logger"
	"github.com/spf13/cast"
)

// Config 渲染配置
type Config struct {
	// 日志
	LogLevel string `json:"logLevel"`

	// 输出格式
	Canonical bool   `json:"canonical"`
	Indent    string `json:"indent"`

	// 文本表达式翻译
	Variables       map[string]any `json:"variables,omitempty"`
	DecimalLiterals bool           `json:"decimalLiterals"`

	// 渲染上下文，为空时使用根上下文
	Context ContextConfig `json:"context"`
}

// ContextConfig describes the fields an upstream stage exposed
type ContextConfig struct {
	GroupFields   []string `json:"groupFields,omitempty"`   // fields grouped on, resolved under _id
	ExposedFields []string `json:"exposedFields,omitempty"` // plain exposed fields
}

// NewConfig returns the default configuration
func NewConfig() Config {
	return Config{LogLevel: logger.INFO.String()}
}

// LoadConfig decodes a JSON config over the defaults and validates it
func LoadConfig(r io.Reader) (Config, error) {
	cfg := NewConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Variables = normalizeVariables(cfg.Variables)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the log level and the indent
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("invalid config: indent must be spaces or tabs, got %q", c.Indent)
	}
	for _, name := range append(append([]string(nil), c.Context.GroupFields...), c.Context.ExposedFields...) {
		if name == "" {
			return fmt.Errorf("invalid config: empty context field")
		}
	}
	return nil
}

// Level returns the parsed log level, INFO when invalid
func (c Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

// RenderContext builds the expression context described by c.Context
func (c Config) RenderContext() expr.Context {
	if len(c.Context.GroupFields) == 0 && len(c.Context.ExposedFields) == 0 {
		return expr.DefaultContext
	}
	fields := make([]expr.ExposedField, 0, len(c.Context.GroupFields)+len(c.Context.ExposedFields))
	for _, name := range c.Context.GroupFields {
		fields = append(fields, expr.ExposedField{Name: name, GroupID: true})
	}
	for _, name := range c.Context.ExposedFields {
		fields = append(fields, expr.ExposedField{Name: name})
	}
	return expr.NewExposedFieldsContext(fields)
}

// normalizeVariables turns integral JSON numbers back into ints
func normalizeVariables(vars map[string]any) map[string]any {
	for k, v := range vars {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			vars[k] = cast.ToInt64(f)
		}
	}
	return vars
}
