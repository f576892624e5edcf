package tinyc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// closedFS refuses every operation so fuzzed programs cannot touch disk.
type closedFS struct{}

var errClosedFS = errors.New("filesystem unavailable")

func (closedFS) OpenFile(string, int, os.FileMode) (File, error) { return nil, errClosedFS }
func (closedFS) Rename(string, string) error                     { return errClosedFS }
func (closedFS) Remove(string) error                             { return errClosedFS }

func FuzzCompileDoesNotPanic(f *testing.F) {
	f.Add("")
	f.Add("int main() { return 0; }")
	f.Add("int f(int a, { }")
	f.Add("if (x) { } else if (y) { } else")
	f.Add("\"unterminated")
	f.Add("a = b = c = ;")

	f.Fuzz(func(t *testing.T, source string) {
		_, _ = Parse(source)
	})
}

func FuzzRunDoesNotPanic(f *testing.F) {
	engine := MustNewEngine(Config{StepQuota: 10_000, RecursionLimit: 64})

	f.Add(`int f(int n) { if (n < 2) { return n; } return f(n - 1) + f(n - 2); } f(15);`)
	f.Add(`printf("%d%%%s", 1);`)
	f.Add(`int x = 1 / 0;`)
	f.Add(`int h = fopen("a", "w"); fclose(h); fclose(h);`)
	f.Add(`while (true) { }`)
	f.Add(`puts(getchar()); puts(fgets(stdin)); puts(feof(stdin));`)

	f.Fuzz(func(t *testing.T, source string) {
		if len(source) > 4096 {
			source = source[:4096]
		}
		script, err := engine.Compile(source)
		if err != nil {
			return
		}
		var out bytes.Buffer
		host := Host{Stdin: strings.NewReader("fuzz\ninput"), Stdout: &out, Stderr: &out, FS: closedFS{}}
		_, _ = script.Run(context.Background(), host)
	})
}
