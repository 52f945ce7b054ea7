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

// Package audit wires an auditing handler in front of entity conversion.
//
// The handler itself, including how it decides whether an entity is new,
// belongs to the caller. This package only defines the boundary: a registry
// of persistent entities the handler consults, the handler contract, and a
// callback that resolves the handler lazily and invokes it before an entity
// is converted for storage.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rulego/aggexpr/logger"
)

// HandlerName is the name the auditing handler is registered under
const HandlerName = "reactiveMongoAuditingHandler"

var (
	ErrNilEntities = errors.New("audit: persistent entities must not be nil")
	ErrNilFactory  = errors.New("audit: handler factory must not be nil")
	ErrNilHandler  = errors.New("audit: handler factory returned nil")
)

// PersistentEntities is the registry of mapped entity types
type PersistentEntities interface {
	// IsPersistent reports whether entity is of a mapped type
	IsPersistent(entity any) bool
}

// Handler marks entities as created or modified
type Handler interface {
	// MarkAudited returns the entity with audit fields populated
	MarkAudited(ctx context.Context, entity any) (any, error)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, entity any) (any, error)

func (f HandlerFunc) MarkAudited(ctx context.Context, entity any) (any, error) {
	return f(ctx, entity)
}

// Config holds the auditing attributes passed to the handler factory
type Config struct {
	// SetDates populates created/modified dates
	SetDates bool `json:"setDates"`
	// ModifyOnCreate also sets modified fields when an entity is created
	ModifyOnCreate bool `json:"modifyOnCreate"`
	// AuditorRef names the auditor provider, empty when none is configured
	AuditorRef string `json:"auditorRef,omitempty"`
	// DateTimeProviderRef names the clock, empty for the system clock
	DateTimeProviderRef string `json:"dateTimeProviderRef,omitempty"`
}

// NewConfig returns the defaults: dates set, modified on create
func NewConfig() Config {
	return Config{SetDates: true, ModifyOnCreate: true}
}

// LoadConfig reads a JSON config on top of the defaults
func LoadConfig(r io.Reader) (Config, error) {
	cfg := NewConfig()
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("audit: decode config: %w", err)
	}
	return cfg, nil
}

// HandlerFactory builds the handler from the entity registry
type HandlerFactory func(entities PersistentEntities, cfg Config) (Handler, error)

// Registration is the result of Register: the handler name and the callback
// to install in front of entity conversion.
type Registration struct {
	Name     string
	Config   Config
	Callback *EntityCallback
}

// Register validates its collaborators and returns a callback whose handler
// is only built on first use.
func Register(entities PersistentEntities, cfg Config, factory HandlerFactory) (*Registration, error) {
	if entities == nil {
		return nil, ErrNilEntities
	}
	if factory == nil {
		return nil, ErrNilFactory
	}
	provider := func() (Handler, error) {
		h, err := factory(entities, cfg)
		if err != nil {
			return nil, fmt.Errorf("audit: create %s: %w", HandlerName, err)
		}
		if h == nil {
			return nil, ErrNilHandler
		}
		return h, nil
	}
	return &Registration{
		Name:     HandlerName,
		Config:   cfg,
		Callback: NewEntityCallback(entities, provider),
	}, nil
}

// EntityCallback invokes the auditing handler before conversion
type EntityCallback struct {
	entities PersistentEntities
	provider func() (Handler, error)
	log      logger.Logger

	once    sync.Once
	handler Handler
	err     error
}

// NewEntityCallback creates a callback resolving its handler through provider
func NewEntityCallback(entities PersistentEntities, provider func() (Handler, error)) *EntityCallback {
	return &EntityCallback{
		entities: entities,
		provider: provider,
		log:      logger.GetDefault(),
	}
}

// SetLogger replaces the callback logger
func (c *EntityCallback) SetLogger(l logger.Logger) {
	if l == nil {
		l = logger.NewDiscardLogger()
	}
	c.log = l
}

// Handler returns the lazily created handler
func (c *EntityCallback) Handler() (Handler, error) {
	c.once.Do(func() {
		c.handler, c.err = c.provider()
	})
	return c.handler, c.err
}

// OnBeforeConvert marks entity as audited. Entities that are not persistent
// are returned unchanged.
func (c *EntityCallback) OnBeforeConvert(ctx context.Context, entity any, collection string) (any, error) {
	if entity == nil || !c.entities.IsPersistent(entity) {
		return entity, nil
	}
	h, err := c.Handler()
	if err != nil {
		return nil, err
	}
	c.log.Debug("auditing %T before conversion into %s", entity, collection)
	out, err := h.MarkAudited(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("audit %T: %w", entity, err)
	}
	return out, nil
}
