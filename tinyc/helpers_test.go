package tinyc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type runResult struct {
	value  Value
	stdout string
	err    error
}

func testHost(t *testing.T, stdin string) (Host, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return Host{
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &out,
		FS:     OSFileSystem{Root: t.TempDir()},
	}, &out
}

func compileSource(t *testing.T, source string) *Script {
	t.Helper()
	engine := MustNewEngine(Config{})
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return script
}

func runSource(t *testing.T, source string) runResult {
	t.Helper()
	host, out := testHost(t, "")
	return runWithHost(t, MustNewEngine(Config{}), source, host, out)
}

func runWithHost(t *testing.T, engine *Engine, source string, host Host, out *bytes.Buffer) runResult {
	t.Helper()
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	val, err := script.Run(context.Background(), host)
	return runResult{value: val, stdout: out.String(), err: err}
}

func mustRun(t *testing.T, source string) runResult {
	t.Helper()
	res := runSource(t, source)
	if res.err != nil {
		t.Fatalf("run error: %v", res.err)
	}
	return res
}

func requireKind(t *testing.T, err error, kind ErrorKind, contains string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T: %v", err, err)
	}
	if re.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, re.Kind, err)
	}
	if contains != "" && !strings.Contains(err.Error(), contains) {
		t.Fatalf("expected error to contain %q, got %v", contains, err)
	}
}
