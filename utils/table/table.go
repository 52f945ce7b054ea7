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

// Package table prints ordered documents as a text table
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/rulego/aggexpr/document"
	"github.com/spf13/cast"
)

// minWidth is the narrowest column
const minWidth = 4

// Write prints rows as a table. Columns follow the order keys first appear
// in, unless columns is given; missing values print as empty cells.
func Write(w io.Writer, rows []document.D, columns ...string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}
	if len(columns) == 0 {
		columns = collectColumns(rows)
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(len(col), minWidth)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row.Get(col); ok {
				cells[r][i] = cell(v)
				widths[i] = max(widths[i], len(cells[r][i]))
			}
		}
	}

	var b strings.Builder
	border(&b, widths)
	line(&b, widths, columns)
	border(&b, widths)
	for _, row := range cells {
		line(&b, widths, row)
	}
	border(&b, widths)
	fmt.Fprintf(&b, "(%d rows)\n", len(rows))

	_, err := io.WriteString(w, b.String())
	return err
}

func collectColumns(rows []document.D) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for _, key := range row.Keys() {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	return columns
}

// cell formats scalars directly and nested values as JSON
func cell(v any) string {
	switch v.(type) {
	case document.D, []any:
		b, err := document.Marshal(v)
		if err != nil {
			return "?"
		}
		return string(b)
	}
	return cast.ToString(v)
}

func border(b *strings.Builder, widths []int) {
	b.WriteByte('+')
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func line(b *strings.Builder, widths []int, values []string) {
	b.WriteByte('|')
	for i, v := range values {
		fmt.Fprintf(b, " %-*s |", widths[i], v)
	}
	b.WriteByte('\n')
}
