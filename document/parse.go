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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Parse reads a JSON object into an ordered document. Key order is kept,
// integral numbers become int (int64 when they do not fit), other numbers
// float64. Single-key extended JSON wrappers ($numberInt, $numberLong,
// $numberDouble, $numberDecimal, $uuid, $date) are decoded to their values.
func Parse(text string) (D, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("document: unexpected data after top-level object")
	}
	d, ok := v.(D)
	if !ok {
		return nil, fmt.Errorf("document: top-level value is %T, expected object", v)
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) D {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("document: unexpected delimiter %q", t)
	case json.Number:
		return parseNumber(t)
	default:
		// string, bool, nil
		return t, nil
	}
}

func parseObject(dec *json.Decoder) (any, error) {
	d := D{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("document: object key %v is not a string", tok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		d = append(d, E{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if len(d) == 1 {
		return unwrapExtended(d)
	}
	return d, nil
}

func parseArray(dec *json.Decoder) (any, error) {
	items := make([]any, 0)
	for dec.More() {
		item, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func parseNumber(n json.Number) (any, error) {
	text := n.String()
	if !strings.ContainsAny(text, ".eE") {
		i, err := cast.ToInt64E(text)
		if err == nil {
			if i >= math.MinInt && i <= math.MaxInt {
				return int(i), nil
			}
			return i, nil
		}
	}
	return cast.ToFloat64E(text)
}

func unwrapExtended(d D) (any, error) {
	el := d[0]
	switch el.Key {
	case "$numberInt":
		return cast.ToIntE(el.Value)
	case "$numberLong":
		return cast.ToInt64E(el.Value)
	case "$numberDouble":
		s, err := cast.ToStringE(el.Value)
		if err != nil {
			return nil, err
		}
		switch s {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		return cast.ToFloat64E(s)
	case "$numberDecimal":
		s, err := cast.ToStringE(el.Value)
		if err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	case "$uuid":
		s, err := cast.ToStringE(el.Value)
		if err != nil {
			return nil, err
		}
		return uuid.Parse(s)
	case "$date":
		return parseDate(el.Value)
	}
	return d, nil
}

func parseDate(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return time.Parse(time.RFC3339Nano, val)
	case int, int64:
		return time.UnixMilli(cast.ToInt64(val)).UTC(), nil
	}
	return nil, fmt.Errorf("document: unsupported $date value %v", v)
}
