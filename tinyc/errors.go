package tinyc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies compile-time and runtime failures.
type ErrorKind string

const (
	ErrLexical          ErrorKind = "LexicalError"
	ErrSyntax           ErrorKind = "SyntaxError"
	ErrUndefinedName    ErrorKind = "UndefinedName"
	ErrTypeMismatch     ErrorKind = "TypeMismatch"
	ErrDivisionByZero   ErrorKind = "DivisionByZero"
	ErrArityMismatch    ErrorKind = "ArityMismatch"
	ErrInvalidDirective ErrorKind = "InvalidFormatDirective"
	ErrClosedHandle     ErrorKind = "ClosedHandleUse"
	ErrIO               ErrorKind = "IOError"
	ErrNotCallable      ErrorKind = "NotCallable"
	ErrRedeclaration    ErrorKind = "Redeclaration"
	ErrRecursionLimit   ErrorKind = "RecursionLimit"
	ErrStepQuota        ErrorKind = "StepQuota"
)

// CompileError reports a lexical or syntax error. Nothing executes when a
// program fails to compile.
type CompileError struct {
	Kind    ErrorKind
	Pos     Position
	Message string
	source  string
}

func newCompileError(kind ErrorKind, pos Position, msg, source string) *CompileError {
	return &CompileError{Kind: kind, Pos: pos, Message: msg, source: source}
}

func (e *CompileError) Error() string {
	var b strings.Builder
	label := "syntax error"
	if e.Kind == ErrLexical {
		label = "lexical error"
	}
	fmt.Fprintf(&b, "%s at %d:%d: %s", label, e.Pos.Line, e.Pos.Column, e.Message)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts a program run. Output produced before the failure is
// left in place.
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", re.Kind, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// kindError is returned by natives and value helpers that know which class of
// failure occurred but not where. wrapError attaches the position.
type kindError struct {
	kind ErrorKind
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func errorf(kind ErrorKind, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the ErrorKind carried by err, or "" when err did not come
// from the interpreter.
func KindOf(err error) ErrorKind {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return rt.Kind
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return ""
}

func classifyError(err error) ErrorKind {
	if kind := KindOf(err); kind != "" {
		return kind
	}
	return ErrIO
}
