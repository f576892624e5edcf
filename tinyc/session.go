package tinyc

import (
	"context"
	"sort"
)

// Session evaluates snippets against globals that persist between calls.
// Function declarations and variables from earlier snippets stay visible.
type Session struct {
	engine *Engine
	exec   *Execution
}

func (e *Engine) NewSession(host Host) *Session {
	s := &Session{engine: e}
	s.exec = newExecution(e, nil, host)
	return s
}

// Eval runs one snippet. The result is the value of the last statement, or
// of a top-level return. Step quotas apply per snippet.
func (s *Session) Eval(ctx context.Context, source string) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	program, err := Parse(source)
	if err != nil {
		return NewNull(), err
	}

	s.exec.script = &Script{engine: s.engine, program: program, source: source}
	s.exec.ctx = ctx
	s.exec.steps = 0
	s.exec.callStack = s.exec.callStack[:0]

	val, _, err := s.exec.evalStatements(program.Statements, s.exec.globals)
	if err != nil {
		return NewNull(), err
	}
	return val, nil
}

// Globals returns the user-defined global bindings, sorted by name.
func (s *Session) Globals() []Binding {
	names := s.exec.globals.Names()
	sort.Strings(names)
	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		val, _ := s.exec.globals.Get(name)
		bindings = append(bindings, Binding{Name: name, Value: val})
	}
	return bindings
}

// Reset discards every user-defined global.
func (s *Session) Reset() {
	s.exec.globals = newEnv(s.exec.builtins)
}

type Binding struct {
	Name  string
	Value Value
}
