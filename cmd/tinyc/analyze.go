package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tinyc-lang/tinyc/tinyc"
)

const programScope = "<program>"

type lintWarning struct {
	Function string
	Pos      tinyc.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("tinyc analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	engine := tinyc.MustNewEngine(tinyc.Config{})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgram(script.Program(), engine.BuiltinNames())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzer collects warnings for one program. Only top-level declarations are
// known statically; a call through a global variable is never flagged.
type analyzer struct {
	functions map[string]*tinyc.FunctionStmt
	globals   map[string]struct{}
	builtins  map[string]struct{}
	warnings  []lintWarning
}

func analyzeProgram(program *tinyc.Program, builtins []string) []lintWarning {
	a := &analyzer{
		functions: make(map[string]*tinyc.FunctionStmt),
		globals:   make(map[string]struct{}),
		builtins:  make(map[string]struct{}, len(builtins)),
	}
	for _, name := range builtins {
		a.builtins[name] = struct{}{}
	}

	var topLevel []tinyc.Statement
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *tinyc.FunctionStmt:
			if _, dup := a.functions[s.Name]; dup {
				a.warn(programScope, s.Pos(), fmt.Sprintf("function %s is declared more than once", s.Name))
				continue
			}
			a.functions[s.Name] = s
		case *tinyc.VarDecl:
			a.globals[s.Name] = struct{}{}
			topLevel = append(topLevel, stmt)
		default:
			topLevel = append(topLevel, stmt)
		}
	}

	a.lintStatements(programScope, topLevel)
	a.checkCalls(programScope, topLevel, localNames(nil, topLevel))
	for _, fn := range program.Functions() {
		a.lintStatements(fn.Name, fn.Body.Statements)
		a.checkCalls(fn.Name, fn.Body.Statements, localNames(fn.Params, fn.Body.Statements))
	}

	sort.SliceStable(a.warnings, func(i, j int) bool {
		wi, wj := a.warnings[i], a.warnings[j]
		if wi.Pos.Line != wj.Pos.Line {
			return wi.Pos.Line < wj.Pos.Line
		}
		if wi.Pos.Column != wj.Pos.Column {
			return wi.Pos.Column < wj.Pos.Column
		}
		return wi.Function < wj.Function
	})
	return a.warnings
}

func (a *analyzer) warn(function string, pos tinyc.Position, message string) {
	a.warnings = append(a.warnings, lintWarning{Function: function, Pos: pos, Message: message})
}

// lintStatements reports statements that follow an unconditional return and
// reports whether the sequence always returns.
func (a *analyzer) lintStatements(function string, statements []tinyc.Statement) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			a.warn(function, stmt.Pos(), "unreachable statement")
			continue
		}
		if a.statementTerminates(function, stmt) {
			terminated = true
		}
	}
	return terminated
}

func (a *analyzer) statementTerminates(function string, stmt tinyc.Statement) bool {
	switch typed := stmt.(type) {
	case *tinyc.ReturnStmt:
		return true
	case *tinyc.BlockStmt:
		return a.lintStatements(function, typed.Statements)
	case *tinyc.IfStmt:
		consequent := a.lintStatements(function, typed.Consequent.Statements)
		if typed.Alternate == nil {
			return false
		}
		alternate := a.lintStatements(function, typed.Alternate.Statements)
		return consequent && alternate
	case *tinyc.WhileStmt:
		a.lintStatements(function, typed.Body.Statements)
		return false
	default:
		return false
	}
}

// localNames collects parameters and block-scoped declarations. A call
// through one of them cannot be resolved statically.
func localNames(params []string, statements []tinyc.Statement) map[string]struct{} {
	names := make(map[string]struct{}, len(params))
	for _, param := range params {
		names[param] = struct{}{}
	}
	for _, stmt := range statements {
		tinyc.Inspect(stmt, func(node tinyc.Node) bool {
			if decl, ok := node.(*tinyc.VarDecl); ok {
				names[decl.Name] = struct{}{}
			}
			return true
		})
	}
	return names
}

func (a *analyzer) checkCalls(function string, statements []tinyc.Statement, locals map[string]struct{}) {
	for _, stmt := range statements {
		tinyc.Inspect(stmt, func(node tinyc.Node) bool {
			call, ok := node.(*tinyc.CallExpr)
			if !ok {
				return true
			}
			name := call.Callee.Name
			if _, ok := locals[name]; ok {
				return true
			}
			if fn, ok := a.functions[name]; ok {
				if len(call.Args) != len(fn.Params) {
					a.warn(function, call.Pos(), fmt.Sprintf("%s expects %d arguments, got %d", name, len(fn.Params), len(call.Args)))
				}
				return true
			}
			if _, ok := a.builtins[name]; ok {
				return true
			}
			if _, ok := a.globals[name]; ok {
				return true
			}
			a.warn(function, call.Pos(), fmt.Sprintf("call to undeclared function %s", name))
			return true
		})
	}
}
