package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExpr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-expr", "round(price * 1.1, 2)", "-log-level", "off"}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.JSONEq(t, `{"$round": [{"$multiply": ["$price", 1.1]}, 2]}`, stdout.String())
}

func TestRunStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	in := strings.NewReader("# comment\nsqrt(a)\n\nsin(angle, \"degrees\")\n")
	code := run([]string{"-log-level", "off"}, in, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"$sqrt": "$a"}`, lines[0])
	assert.JSONEq(t, `{"$sin": {"$degreesToRadians": "$angle"}}`, lines[1])
}

func TestRunCanonicalWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logLevel": "off", "context": {"groupFields": ["state"]}}`), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", path, "-canonical", "-expr", "state + 1"}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.JSONEq(t, `{"$add": ["$_id", {"$numberInt": "1"}]}`, stdout.String())
}

func TestRunOperators(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-operators"}, nil, &stdout, &stderr), stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "| operator ")
	assert.Contains(t, out, "$derivative")
	assert.Contains(t, out, "unary-with-optional-place")
	assert.True(t, strings.HasSuffix(out, "(42 rows)\n"), out)
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"-log-level", "off", "-expr", "median(a)"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "UNKNOWN_OPERATOR")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "missing.json")}, nil, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"-log-level", "loud", "-expr", "a"}, nil, &stdout, &stderr))

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"-bogus"}, nil, &stdout, &stderr))

	stderr.Reset()
	in := strings.NewReader("sqrt(a)\nbad(\n")
	assert.Equal(t, 1, run([]string{"-log-level", "off"}, in, &stdout, &stderr))
}
