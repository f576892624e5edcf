package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tinyc-lang/tinyc/tinyc"
)

var (
	stderrRenderer  = lipgloss.NewRenderer(os.Stderr)
	diagnosticStyle = stderrRenderer.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func main() {
	if err := runCLI(os.Args); err != nil {
		var status exitStatusError
		if errors.As(err, &status) {
			os.Exit(status.code)
		}
		fmt.Fprintln(os.Stderr, diagnosticStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// exitStatusError carries a non-zero program exit status out of runCLI.
type exitStatusError struct {
	code int
}

func (e exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// commands maps each subcommand to its handler. Handlers receive the
// arguments after the subcommand name.
var commands = map[string]func([]string) error{
	"run":     runCommand,
	"check":   checkCommand,
	"fmt":     fmtCommand,
	"analyze": analyzeCommand,
	"repl":    replCommand,
	"lsp":     func([]string) error { return runLSP() },
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	name := args[1]
	if handler, ok := commands[name]; ok {
		return handler(args[2:])
	}
	switch {
	case name == "help" || name == "-h" || name == "--help":
		printUsage()
		return nil
	case isSourceFile(name):
		return runCommand(args[1:])
	}
	return usageError()
}

// runOptions are the flags accepted by `tinyc run`.
type runOptions struct {
	function  string
	checkOnly bool
	settings  settingsFlags
}

func runCommand(args []string) error {
	var opts runOptions
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	fs.StringVar(&opts.function, "function", "", "call this function instead of running the program")
	fs.BoolVar(&opts.checkOnly, "check", false, "only compile the script without executing")
	opts.settings.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("tinyc run: script path required")
	}

	script, cfg, err := opts.load(fs.Arg(0))
	if err != nil || opts.checkOnly {
		return err
	}

	ctx := context.Background()
	host := tinyc.Host{FS: tinyc.OSFileSystem{Root: cfg.Root}}
	var result tinyc.Value
	if opts.function == "" {
		result, err = script.Run(ctx, host)
	} else {
		result, err = script.Call(ctx, host, opts.function, scriptArgs(fs.Args()[1:]))
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if code := tinyc.ExitStatus(result); code != 0 {
		return exitStatusError{code: code}
	}
	return nil
}

// load reads and compiles the script at path with the settings that apply
// to it.
func (o runOptions) load(path string) (*tinyc.Script, settings, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, settings{}, fmt.Errorf("resolve script path: %w", err)
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, settings{}, fmt.Errorf("read script: %w", err)
	}
	cfg, err := o.settings.resolve(abs)
	if err != nil {
		return nil, settings{}, err
	}
	engine, err := cfg.engine()
	if err != nil {
		return nil, settings{}, err
	}
	script, err := engine.Compile(string(src))
	if err != nil {
		return nil, settings{}, fmt.Errorf("compile failed: %w", err)
	}
	return script, cfg, nil
}

func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("tinyc check: script path required")
	}
	for _, path := range fs.Args() {
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if _, err := tinyc.Parse(string(input)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// scriptArgs converts command line arguments for -function calls. Integer
// literals become ints, everything else is passed as a string.
func scriptArgs(raw []string) []tinyc.Value {
	values := make([]tinyc.Value, len(raw))
	for i, arg := range raw {
		if n, err := strconv.ParseInt(arg, 10, 64); err == nil {
			values[i] = tinyc.NewInt(n)
			continue
		}
		values[i] = tinyc.NewString(arg)
	}
	return values
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

const usageText = `Usage: %[1]s <script.tc>
       %[1]s <command> [flags] [args...]

Commands:
  run      run a script; its result becomes the exit status
  check    parse scripts without running them
  fmt      reformat .tc files (-w to write, -check to verify)
  analyze  report unreachable code and suspicious calls
  lsp      serve diagnostics over stdio
  repl     start an interactive session (-plain for a line editor)

Run flags:
  -function name    call name with the remaining arguments instead of running the program
  -check            only compile the script
  -config file      read settings from YAML (default: tinyc.yaml beside the script)
  -steps n          step quota
  -recursion-limit n
  -root dir         directory fopen paths resolve against
  -log-level level  debug, info, warn or error
`

func printUsage() {
	fmt.Fprintf(os.Stderr, usageText, filepath.Base(os.Args[0]))
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

const sourceExt = ".tc"

func isSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sourceExt)
}
