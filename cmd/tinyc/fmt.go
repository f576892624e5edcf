package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const indentUnit = "  "

// fmtOptions selects what fmt does with each reformatted file. With neither
// flag set the result goes to stdout.
type fmtOptions struct {
	write bool
	check bool
}

func fmtCommand(args []string) error {
	var opts fmtOptions
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	fs.BoolVar(&opts.write, "w", false, "rewrite files in place")
	fs.BoolVar(&opts.check, "check", false, "list files that are not formatted and fail")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("tinyc fmt: path required")
	}

	paths, err := collectSourceFiles(fs.Args())
	if err != nil {
		return err
	}
	var stale []string
	for _, path := range paths {
		changed, err := opts.apply(path)
		if err != nil {
			return err
		}
		if changed {
			stale = append(stale, path)
		}
	}

	if !opts.check || len(stale) == 0 {
		return nil
	}
	fmt.Println(strings.Join(stale, "\n"))
	return fmt.Errorf("tinyc fmt: %d file(s) need formatting", len(stale))
}

// apply formats one file and reports whether its contents changed.
func (o fmtOptions) apply(path string) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	out := formatSource(string(src))
	changed := out != string(src)

	switch {
	case o.check:
	case o.write:
		if changed {
			return true, rewriteFile(path, out)
		}
	default:
		fmt.Print(out)
	}
	return changed, nil
}

// rewriteFile replaces the contents of path, keeping its permissions.
func rewriteFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// collectSourceFiles expands directories to the source files below them and
// returns the absolute, de-duplicated paths in sorted order. Named files
// without the source extension are skipped.
func collectSourceFiles(targets []string) ([]string, error) {
	found := map[string]bool{}
	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, entry fs.DirEntry, err error) error {
			switch {
			case err != nil:
				return err
			case entry.IsDir() || !isSourceFile(path):
				return nil
			}
			abs, err := filepath.Abs(path)
			if err == nil {
				found[abs] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", target, err)
		}
	}
	return slices.Sorted(maps.Keys(found)), nil
}

// formatSource reindents by brace depth, trims trailing whitespace, collapses
// runs of blank lines and ends the file with exactly one newline.
func formatSource(source string) string {
	normalized := strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(source)

	var out []string
	depth := 0
	pendingBlank := false
	for _, raw := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			pendingBlank = len(out) > 0
			continue
		}
		if pendingBlank {
			out = append(out, "")
			pendingBlank = false
		}

		opens, closes, leading := braceCounts(line)
		indent := max(depth-leading, 0)
		out = append(out, strings.Repeat(indentUnit, indent)+line)
		depth = max(depth+opens-closes, 0)
	}
	return strings.Join(out, "\n") + "\n"
}

// braceCounts counts the braces on a line outside string literals and
// comments. leading is the number of closing braces before any other token.
func braceCounts(line string) (opens, closes, leading int) {
	inString := false
	escaped := false
	atStart := true
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
			atStart = false
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return opens, closes, leading
			}
			atStart = false
		case '{':
			opens++
			atStart = false
		case '}':
			closes++
			if atStart {
				leading++
			}
		case ' ', '\t':
		default:
			atStart = false
		}
	}
	return opens, closes, leading
}
