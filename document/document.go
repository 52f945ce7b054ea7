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

package document

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rulego/aggexpr/utils/fieldpath"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// E is a single key/value element of a document.
type E struct {
	Key   string
	Value any
}

// D is an ordered document. Values are scalars, nested D values or []any
// sequences. The zero value is an empty document.
type D []E

// New builds a document from alternating key/value arguments.
// It panics when a key is not a string or a value is missing.
func New(pairs ...any) D {
	if len(pairs)%2 != 0 {
		panic("document.New: odd number of arguments")
	}
	d := make(D, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("document.New: key must be a string")
		}
		d = append(d, E{Key: key, Value: pairs[i+1]})
	}
	return d
}

// Get returns the value stored under key.
func (d D) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (d D) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// With returns a copy of d with key set to value. An existing key keeps its
// position, a new key is appended.
func (d D) With(key string, value any) D {
	out := make(D, len(d), len(d)+1)
	copy(out, d)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, E{Key: key, Value: value})
}

// Lookup navigates nested documents and sequences along a dotted path, see
// package fieldpath for the accepted syntax.
func (d D) Lookup(path string) (any, bool) {
	return fieldpath.Get(d, path)
}

// Equal reports whether d and other are structurally equal.
func (d D) Equal(other D) bool {
	return Equal(d, other)
}

// String returns the relaxed JSON form of d.
func (d D) String() string {
	b, err := Marshal(d)
	if err != nil {
		return "<invalid document: " + err.Error() + ">"
	}
	return string(b)
}

// Equal compares two rendered values structurally. Documents must have the
// same keys in the same order, sequences the same elements in the same order.
// Numbers compare by value regardless of their Go type, so 3 equals int64(3)
// and 3.0.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case D:
		bv, ok := b.(D)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case uuid.UUID:
		bv, ok := b.(uuid.UUID)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}

	if isNumber(a) && isNumber(b) {
		return numbersEqual(a, b)
	}

	as, aok := sequence(a)
	bs, bok := sequence(b)
	if aok && bok {
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func isInteger(v any) bool {
	switch v.(type) {
	case float32, float64:
		return false
	}
	return isNumber(v)
}

func numbersEqual(a, b any) bool {
	if isInteger(a) && isInteger(b) {
		return cast.ToInt64(a) == cast.ToInt64(b)
	}
	return cast.ToFloat64(a) == cast.ToFloat64(b)
}

// sequence converts slices and arrays (other than []byte) to []any.
func sequence(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
