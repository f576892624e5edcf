package tinyc

import (
	"context"
	"errors"
	"fmt"
)

func (exec *Execution) errorKindAt(kind ErrorKind, pos Position, format string, args ...any) error {
	return exec.newRuntimeError(kind, fmt.Sprintf(format, args...), pos)
}

func (exec *Execution) newRuntimeError(kind ErrorKind, message string, pos Position) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)

	if len(exec.callStack) > 0 {
		// innermost function at the failing position, then each call site
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<program>", Pos: pos})
	}

	codeFrame := ""
	if exec.script != nil {
		codeFrame = formatCodeFrame(exec.script.source, pos)
	}
	return &RuntimeError{Kind: kind, Message: message, CodeFrame: codeFrame, Frames: frames}
}

// wrapError positions an error returned by a native or a helper. Errors that
// already carry a position and context cancellation pass through unchanged.
func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return err
	}
	return exec.newRuntimeError(classifyError(err), err.Error(), pos)
}
