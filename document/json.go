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
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarshalOption configures Marshal.
type MarshalOption func(*encoder)

// Canonical switches to canonical extended JSON: every number is wrapped in
// its type marker ($numberInt, $numberLong, $numberDouble).
func Canonical(enabled bool) MarshalOption {
	return func(e *encoder) {
		e.canonical = enabled
	}
}

// Indent pretty-prints the output with the given indent string.
func Indent(indent string) MarshalOption {
	return func(e *encoder) {
		e.indent = indent
	}
}

type encoder struct {
	buf       bytes.Buffer
	canonical bool
	indent    string
}

// Marshal encodes a rendered value as extended JSON, preserving document key
// order. Relaxed mode is the default.
func Marshal(v any, opts ...MarshalOption) ([]byte, error) {
	enc := &encoder{}
	for _, opt := range opts {
		opt(enc)
	}
	if err := enc.encode(v); err != nil {
		return nil, err
	}
	if enc.indent == "" {
		return enc.buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, enc.buf.Bytes(), "", enc.indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalJSON implements json.Marshaler using the relaxed format.
func (d D) MarshalJSON() ([]byte, error) {
	return Marshal(d)
}

func (e *encoder) encode(v any) error {
	switch val := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case D:
		return e.encodeDocument(val)
	case string:
		return e.encodeString(val)
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case int:
		e.encodeInt(int64(val), val >= math.MinInt32 && val <= math.MaxInt32)
	case int8:
		e.encodeInt(int64(val), true)
	case int16:
		e.encodeInt(int64(val), true)
	case int32:
		e.encodeInt(int64(val), true)
	case int64:
		e.encodeInt(val, false)
	case uint8:
		e.encodeInt(int64(val), true)
	case uint16:
		e.encodeInt(int64(val), true)
	case uint32:
		e.encodeInt(int64(val), false)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return fmt.Errorf("document: unsigned value %d overflows int64", val)
		}
		e.encodeInt(int64(val), false)
	case uint64:
		if val > math.MaxInt64 {
			return fmt.Errorf("document: unsigned value %d overflows int64", val)
		}
		e.encodeInt(int64(val), false)
	case float32:
		e.encodeDouble(float64(val))
	case float64:
		e.encodeDouble(val)
	case decimal.Decimal:
		e.wrapped("$numberDecimal", val.String())
	case uuid.UUID:
		e.wrapped("$uuid", val.String())
	case time.Time:
		e.encodeDate(val)
	case map[string]any:
		return e.encodeMap(val)
	case json.Marshaler:
		b, err := val.MarshalJSON()
		if err != nil {
			return err
		}
		e.buf.Write(b)
	default:
		if seq, ok := sequence(v); ok {
			return e.encodeSequence(seq)
		}
		return fmt.Errorf("document: unsupported value type %s", reflect.TypeOf(v))
	}
	return nil
}

func (e *encoder) encodeDocument(d D) error {
	e.buf.WriteByte('{')
	for i, el := range d {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encodeString(el.Key); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if err := e.encode(el.Value); err != nil {
			return fmt.Errorf("%s: %w", el.Key, err)
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// encodeMap writes plain maps with sorted keys so the output stays stable.
func (e *encoder) encodeMap(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d := make(D, 0, len(keys))
	for _, k := range keys {
		d = append(d, E{Key: k, Value: m[k]})
	}
	return e.encodeDocument(d)
}

func (e *encoder) encodeSequence(seq []any) error {
	e.buf.WriteByte('[')
	for i, item := range seq {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.encode(item); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) encodeString(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

func (e *encoder) encodeInt(n int64, fits32 bool) {
	text := strconv.FormatInt(n, 10)
	if !e.canonical {
		e.buf.WriteString(text)
		return
	}
	if fits32 {
		e.wrapped("$numberInt", text)
	} else {
		e.wrapped("$numberLong", text)
	}
}

func (e *encoder) encodeDouble(f float64) {
	switch {
	case math.IsNaN(f):
		e.wrapped("$numberDouble", "NaN")
		return
	case math.IsInf(f, 1):
		e.wrapped("$numberDouble", "Infinity")
		return
	case math.IsInf(f, -1):
		e.wrapped("$numberDouble", "-Infinity")
		return
	}

	text := formatDouble(f)
	if e.canonical {
		e.wrapped("$numberDouble", text)
		return
	}
	e.buf.WriteString(text)
}

// formatDouble keeps a fraction or exponent so doubles stay doubles when the
// text is parsed again.
func formatDouble(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !bytes.ContainsAny([]byte(text), ".eE") {
		text += ".0"
	}
	return text
}

func (e *encoder) encodeDate(t time.Time) {
	if e.canonical {
		e.buf.WriteString(`{"$date":`)
		e.wrapped("$numberLong", strconv.FormatInt(t.UnixMilli(), 10))
		e.buf.WriteByte('}')
		return
	}
	e.wrapped("$date", t.UTC().Format("2006-01-02T15:04:05.000Z07:00"))
}

func (e *encoder) wrapped(marker, text string) {
	e.buf.WriteString(`{"`)
	e.buf.WriteString(marker)
	e.buf.WriteString(`":`)
	e.buf.WriteString(strconv.Quote(text))
	e.buf.WriteByte('}')
}
