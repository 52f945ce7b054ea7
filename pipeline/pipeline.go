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

package pipeline

import (
	"context"
	"fmt"

	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/logger"
)

// Stage is one aggregation stage. ToDocument renders the stage against the
// context produced by the stages before it.
type Stage interface {
	ToDocument(ctx expr.Context) document.D
}

// FieldsExposingStage reshapes documents; the stage after it resolves field
// names against the fields it exposes.
type FieldsExposingStage interface {
	Stage
	ExposedFields() []expr.ExposedField
}

// InheritingStage is a FieldsExposingStage that adds fields without hiding
// the ones exposed before it, like $setWindowFields.
type InheritingStage interface {
	FieldsExposingStage
	InheritsFields() bool
}

// Validator is implemented by stages that can be misconfigured
type Validator interface {
	Validate() error
}

// Runner executes rendered pipelines. Driver integration lives outside this
// module; tests use an in-memory fake.
type Runner interface {
	Aggregate(ctx context.Context, collection string, pipeline []document.D) error
}

// Pipeline is an ordered, immutable list of stages
type Pipeline struct {
	stages []Stage
	log    logger.Logger
}

// New validates the stages and builds a pipeline
func New(stages ...Stage) (*Pipeline, error) {
	for i, stage := range stages {
		if stage == nil {
			return nil, expr.NewError(expr.CodeInvalidOperand, "", "stage %d is nil", i)
		}
		if v, ok := stage.(Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
		}
	}
	return &Pipeline{
		stages: append([]Stage(nil), stages...),
		log:    logger.GetDefault(),
	}, nil
}

// WithLogger returns a copy of p logging to l
func (p *Pipeline) WithLogger(l logger.Logger) *Pipeline {
	cp := *p
	if l == nil {
		l = logger.NewDiscardLogger()
	}
	cp.log = l
	return &cp
}

// Stages returns a copy of the stage list
func (p *Pipeline) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Len returns the number of stages
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Render compiles every stage. The first stage sees root (DefaultContext
// when nil); a stage that exposes fields replaces the context of all later
// stages with an ExposedFieldsContext over those fields.
func (p *Pipeline) Render(root expr.Context) []document.D {
	if root == nil {
		root = expr.DefaultContext
	}

	ctx := root
	var exposed []expr.ExposedField
	docs := make([]document.D, 0, len(p.stages))
	for i, stage := range p.stages {
		d := stage.ToDocument(ctx)
		p.log.Debug("pipeline stage %d rendered: %s", i, d)
		docs = append(docs, d)

		fs, ok := stage.(FieldsExposingStage)
		if !ok {
			continue
		}
		if is, ok := stage.(InheritingStage); ok && is.InheritsFields() {
			exposed = append(exposed, fs.ExposedFields()...)
		} else {
			exposed = append([]expr.ExposedField(nil), fs.ExposedFields()...)
		}
		ctx = expr.NewExposedFieldsContext(exposed)
	}
	return docs
}

// Fingerprint hashes the rendered stages, two pipelines that render equal
// documents get the same value.
func (p *Pipeline) Fingerprint(root expr.Context) (uint64, error) {
	return document.FingerprintAll(p.Render(root))
}

// Run renders the pipeline and hands it to runner
func (p *Pipeline) Run(ctx context.Context, runner Runner, collection string, root expr.Context) error {
	if runner == nil {
		return fmt.Errorf("pipeline: nil runner")
	}
	docs := p.Render(root)
	p.log.Info("running %d stage pipeline on %s", len(docs), collection)
	if err := runner.Aggregate(ctx, collection, docs); err != nil {
		p.log.Error("aggregate on %s failed: %v", collection, err)
		return fmt.Errorf("aggregate %s: %w", collection, err)
	}
	return nil
}
