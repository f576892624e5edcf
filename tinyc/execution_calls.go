package tinyc

import (
	"log/slog"
)

// evalCallExpression resolves the callee in the global scope only; locals of
// the calling function are never callable.
func (exec *Execution) evalCallExpression(call *CallExpr, env *Env) (Value, error) {
	name := call.Callee.Name
	callee, ok := exec.globals.Get(name)
	if !ok {
		return NewNull(), exec.errorKindAt(ErrUndefinedName, call.Pos(), "undefined function %s", name)
	}
	if !callee.IsCallable() {
		return NewNull(), exec.errorKindAt(ErrNotCallable, call.Pos(), "%s is not callable (%s)", name, callee.Kind())
	}

	args := make([]Value, 0, len(call.Args))
	for _, argExpr := range call.Args {
		val, err := exec.evalExpression(argExpr, env)
		if err != nil {
			return NewNull(), err
		}
		args = append(args, val)
	}

	return exec.callValue(name, callee, args, call.Pos())
}

func (exec *Execution) callValue(name string, callee Value, args []Value, pos Position) (Value, error) {
	if err := exec.step(); err != nil {
		return NewNull(), exec.wrapError(err, pos)
	}
	switch callee.Kind() {
	case KindFunction:
		return exec.callFunction(callee.Function(), args, pos)
	case KindBuiltin:
		builtin := callee.Builtin()
		result, err := builtin.Fn(exec, args)
		if err != nil {
			return NewNull(), exec.wrapError(err, pos)
		}
		return result, nil
	default:
		return NewNull(), exec.errorKindAt(ErrNotCallable, pos, "%s is not callable (%s)", name, callee.Kind())
	}
}

// callFunction binds parameters in a new frame whose parent is the global
// scope and runs the body there. Falling off the end yields null.
func (exec *Execution) callFunction(fn *ScriptFunction, args []Value, pos Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return NewNull(), exec.errorKindAt(ErrArityMismatch, pos, "%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}

	if fn.Name == "main" {
		exec.mainEntered = true
	}
	frame := newEnv(fn.Env)
	for i, param := range fn.Params {
		frame.set(param, args[i])
	}

	if err := exec.pushFrame(fn.Name, pos); err != nil {
		return NewNull(), err
	}
	val, returned, err := exec.evalStatements(fn.Body.Statements, frame)
	exec.popFrame()
	if err != nil {
		return NewNull(), err
	}
	if !returned {
		return NewNull(), nil
	}
	return val, nil
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorKindAt(ErrRecursionLimit, pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	exec.logger.Debug("push stack frame", slog.String("function", function), slog.Int("stack-size", len(exec.callStack)))
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
	exec.logger.Debug("pop stack frame", slog.Int("stack-size", len(exec.callStack)))
}
