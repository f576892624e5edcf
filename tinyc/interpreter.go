package tinyc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Config controls interpreter execution bounds.
type Config struct {
	// StepQuota caps the number of statements and calls a run may execute.
	// Zero means unlimited.
	StepQuota int
	// RecursionLimit caps the depth of nested user function calls.
	RecursionLimit int
	// Logger receives debug records for call frames and file operations.
	Logger *slog.Logger
}

const defaultRecursionLimit = 10000

// Engine compiles and runs TinyC programs against a fixed standard library.
type Engine struct {
	config   Config
	builtins map[string]Value
}

// NewEngine constructs an Engine with defaults applied and the standard
// library registered.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must be non-negative, got %d", cfg.StepQuota)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must be non-negative, got %d", cfg.RecursionLimit)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]Value),
	}
	registerStdlib(engine)
	return engine, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// RegisterBuiltin installs fn as a native function visible to every program
// run by the engine. Registering an existing name replaces it.
func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.builtins[name] = NewBuiltin(name, fn)
}

// BuiltinNames returns the registered native function names, sorted.
func (e *Engine) BuiltinNames() []string {
	names := make([]string, 0, len(e.builtins))
	for name := range e.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile parses source. Nothing is executed.
func (e *Engine) Compile(source string) (*Script, error) {
	program, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Script{engine: e, program: program, source: source}, nil
}

// Execute compiles and runs source in one step.
func (e *Engine) Execute(ctx context.Context, source string, host Host) (Value, error) {
	script, err := e.Compile(source)
	if err != nil {
		return NewNull(), err
	}
	return script.Run(ctx, host)
}
