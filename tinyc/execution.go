package tinyc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Script is a compiled program. It can be run any number of times; each run
// starts from fresh globals.
type Script struct {
	engine  *Engine
	program *Program
	source  string
}

// Program returns the parsed syntax tree.
func (s *Script) Program() *Program {
	return s.program
}

// Source returns the text the script was compiled from.
func (s *Script) Source() string {
	return s.source
}

type callFrame struct {
	Function string
	Pos      Position
}

// Execution holds the state of a single program run.
type Execution struct {
	engine       *Engine
	script       *Script
	ctx          context.Context
	quota        int
	recursionCap int
	steps        int
	mainEntered  bool
	callStack    []callFrame
	builtins     *Env
	globals      *Env
	host         Host
	logger       *slog.Logger
	stdin        *FileHandle
	stdout       *FileHandle
	stderr       *FileHandle
}

var errStepQuotaExceeded = errors.New("step quota exceeded")

func newExecution(engine *Engine, script *Script, host Host) *Execution {
	host = host.withDefaults()
	exec := &Execution{
		engine:       engine,
		script:       script,
		ctx:          context.Background(),
		quota:        engine.config.StepQuota,
		recursionCap: engine.config.RecursionLimit,
		host:         host,
		logger:       engine.config.Logger,
		stdin:        newConsoleHandle("stdin", host.Stdin, nil),
		stdout:       newConsoleHandle("stdout", nil, host.Stdout),
		stderr:       newConsoleHandle("stderr", nil, host.Stderr),
	}

	exec.builtins = newEnv(nil)
	for name, builtin := range engine.builtins {
		exec.builtins.set(name, builtin)
	}
	exec.builtins.set("stdin", NewFile(exec.stdin))
	exec.builtins.set("stdout", NewFile(exec.stdout))
	exec.builtins.set("stderr", NewFile(exec.stderr))
	exec.globals = newEnv(exec.builtins)
	return exec
}

// Run executes the top-level statements in order and returns the program
// result: the value of a top-level return, or of the last top-level
// statement that calls a user function. A program that declares main, makes
// no top-level call statement and never enters main during the top-level
// pass has main invoked for it.
func (s *Script) Run(ctx context.Context, host Host) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := newExecution(s.engine, s, host)
	exec.ctx = ctx

	exec.logger.Debug("program start", slog.Int("statements", len(s.program.Statements)))
	result, err := exec.runProgram(s.program)
	if err != nil {
		exec.logger.Debug("program failed", slog.String("kind", string(KindOf(err))), slog.Int("steps", exec.steps))
		return NewNull(), err
	}
	exec.logger.Debug("program finished", slog.String("result", result.Inspect()), slog.Int("steps", exec.steps))
	return result, nil
}

func (exec *Execution) runProgram(program *Program) (Value, error) {
	result := NewNull()
	called := false
	for _, stmt := range program.Statements {
		if err := exec.step(); err != nil {
			return NewNull(), exec.wrapError(err, stmt.Pos())
		}
		val, returned, err := exec.evalStatement(stmt, exec.globals)
		if err != nil {
			return NewNull(), err
		}
		if returned {
			return val, nil
		}
		if isCallStatement(stmt) {
			called = true
			if exec.callsUserFunction(stmt) {
				result = val
			}
		}
	}

	if called || exec.mainEntered {
		return result, nil
	}
	mainVal, ok := exec.globals.values["main"]
	if !ok || mainVal.Kind() != KindFunction {
		return result, nil
	}
	fn := mainVal.Function()
	if len(fn.Params) != 0 {
		return NewNull(), exec.errorKindAt(ErrArityMismatch, fn.Pos, "main must take no arguments to be called implicitly")
	}
	return exec.callFunction(fn, nil, fn.Pos)
}

func isCallStatement(stmt Statement) bool {
	_, ok := callOf(stmt)
	return ok
}

func callOf(stmt Statement) (*CallExpr, bool) {
	exprStmt, ok := stmt.(*ExprStmt)
	if !ok {
		return nil, false
	}
	call, ok := exprStmt.Expr.(*CallExpr)
	return call, ok
}

// callsUserFunction reports whether stmt is a call statement whose callee is
// a function declared by the program. Native calls never set the result.
func (exec *Execution) callsUserFunction(stmt Statement) bool {
	call, ok := callOf(stmt)
	if !ok {
		return false
	}
	callee, ok := exec.globals.Get(call.Callee.Name)
	return ok && callee.Kind() == KindFunction
}

// Call invokes a declared function by name after running the top-level
// statements once to bind globals.
func (s *Script) Call(ctx context.Context, host Host, name string, args []Value) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := newExecution(s.engine, s, host)
	exec.ctx = ctx

	for _, stmt := range s.program.Statements {
		if isCallStatement(stmt) {
			continue
		}
		if err := exec.step(); err != nil {
			return NewNull(), exec.wrapError(err, stmt.Pos())
		}
		if _, returned, err := exec.evalStatement(stmt, exec.globals); err != nil {
			return NewNull(), err
		} else if returned {
			break
		}
	}

	val, ok := exec.globals.Get(name)
	if !ok || !val.IsCallable() {
		return NewNull(), fmt.Errorf("function %s not found", name)
	}
	return exec.callValue(name, val, args, Position{})
}

// ExitStatus maps a program result to a process exit status. Int results in
// 0..255 are used as is and any other Int becomes 255, so a non-zero result
// never reads as success. Non-Int results mean success.
func ExitStatus(result Value) int {
	if result.Kind() != KindInt {
		return 0
	}
	if n := result.Int(); n >= 0 && n <= 255 {
		return int(n)
	}
	return 255
}

func (exec *Execution) step() error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return &kindError{kind: ErrStepQuota, msg: fmt.Sprintf("%s (%d)", errStepQuotaExceeded, exec.quota)}
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.ctx.Err()
		default:
		}
	}
	return nil
}

// Host returns the capability the standard library performs I/O through.
func (exec *Execution) Host() Host {
	return exec.host
}

// Stdout returns the console output handle.
func (exec *Execution) Stdout() *FileHandle {
	return exec.stdout
}

// Stdin returns the console input handle.
func (exec *Execution) Stdin() *FileHandle {
	return exec.stdin
}

// Logger returns the engine logger.
func (exec *Execution) Logger() *slog.Logger {
	return exec.logger
}
