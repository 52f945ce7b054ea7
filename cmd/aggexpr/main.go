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

// Command aggexpr translates expression text and prints the rendered
// aggregation document.
//
//	aggexpr -expr 'round(price * 1.1, 2)'
//	echo 'sin(angle, "degrees")' | aggexpr -indent '  ' -canonical
//	aggexpr -operators
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rulego/aggexpr"
	"github.com/rulego/aggexpr/document"
	"github.com/rulego/aggexpr/expr"
	"github.com/rulego/aggexpr/logger"
	"github.com/rulego/aggexpr/types"
	"github.com/rulego/aggexpr/utils/table"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aggexpr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		text       = fs.String("expr", "", "expression text, read from stdin line by line when empty")
		configPath = fs.String("config", "", "path to a JSON config file")
		indent     = fs.String("indent", "", "indent JSON output with this string")
		canonical  = fs.Bool("canonical", false, "write canonical extended JSON")
		level      = fs.String("log-level", "", "log level: debug, info, warn, error, off")
		operators  = fs.Bool("operators", false, "list the operator catalog and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *operators {
		if err := listOperators(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	cfg := types.NewConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg, err = types.LoadConfig(f)
		f.Close()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if *indent != "" {
		cfg.Indent = *indent
	}
	if *canonical {
		cfg.Canonical = true
	}
	if *level != "" {
		cfg.LogLevel = *level
	}

	r, err := aggexpr.New(
		aggexpr.WithConfig(cfg),
		aggexpr.WithLogOutput(stderr),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *text != "" {
		return render(r, *text, stdout, stderr)
	}

	status := 0
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if code := render(r, line, stdout, stderr); code != 0 {
			status = code
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("read input: %v", err)
		fmt.Fprintln(stderr, err)
		return 1
	}
	return status
}

func render(r *aggexpr.Renderer, text string, stdout, stderr io.Writer) int {
	out, err := r.RenderString(text)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

func listOperators(w io.Writer) error {
	ops := expr.Operators()
	rows := make([]document.D, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, document.New(
			"operator", op.Token(),
			"class", op.Class().String(),
			"windowOnly", op.WindowOnly(),
			"sortBy", op.RequiresSort(),
		))
	}
	return table.Write(w, rows)
}
