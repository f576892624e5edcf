package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tinyc-lang/tinyc/tinyc"
)

const (
	historyFile    = ".tinyc_history"
	promptMain     = "tinyc> "
	promptContinue = "   ... "
)

// linePrompter is the part of liner.State the plain REPL loop depends on.
type linePrompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func runPlainREPL() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	engine := tinyc.MustNewEngine(tinyc.Config{StepQuota: replStepQuota})
	ln.SetCompleter(func(line string) []string {
		prefix := trailingIdentifier(line)
		if prefix == "" {
			return nil
		}
		var out []string
		for _, name := range append(tinyc.Keywords(), engine.BuiltinNames()...) {
			if strings.HasPrefix(name, prefix) {
				out = append(out, strings.TrimSuffix(line, prefix)+name)
			}
		}
		return out
	})

	session := engine.NewSession(tinyc.Host{Stdin: strings.NewReader("")})
	err := plainREPLLoop(ln, session, os.Stdout)

	if histPath != "" {
		if f, createErr := os.Create(histPath); createErr == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return err
}

// plainREPLLoop reads snippets until EOF or :quit. Program output goes to
// the session host; results and errors are written to out.
func plainREPLLoop(ln linePrompter, session *tinyc.Session, out io.Writer) error {
	fmt.Fprintln(out, "TinyC REPL. Type :help for commands.")
	for {
		code, ok := readSnippet(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			switch strings.Fields(code)[0] {
			case ":quit", ":q":
				return nil
			case ":reset", ":r":
				session.Reset()
				fmt.Fprintln(out, "Globals reset")
			case ":vars", ":v":
				for _, binding := range session.Globals() {
					fmt.Fprintf(out, "%s = %s\n", binding.Name, binding.Value.Inspect())
				}
			case ":help", ":h":
				fmt.Fprintln(out, ":vars  list globals\n:reset discard all globals\n:quit  exit")
			default:
				fmt.Fprintf(out, "Unknown command: %s\n", code)
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		val, err := session.Eval(context.Background(), completeStatement(code))
		if err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		if !val.IsNull() {
			fmt.Fprintln(out, val.Inspect())
		}
	}
}

// readSnippet keeps prompting while the collected lines leave a block open.
func readSnippet(ln linePrompter) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptContinue
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", b.Len() > 0
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if unclosedBraces(src) > 0 {
			continue
		}
		return src, true
	}
}

func unclosedBraces(src string) int {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		opens, closes, _ := braceCounts(line)
		depth += opens - closes
	}
	return depth
}
