package tinyc

// Console natives write through the stdout handle and read through stdin, the
// same handles bound to the globals of those names.

func builtinPrintf(exec *Execution, args []Value) (Value, error) {
	if err := expectMinArgs("printf", args, 1); err != nil {
		return NewNull(), err
	}
	format, err := stringArg("printf", args, 0)
	if err != nil {
		return NewNull(), err
	}
	text, err := formatValues("printf", format, args[1:])
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), exec.stdout.WriteText(text)
}

func builtinSprintf(exec *Execution, args []Value) (Value, error) {
	if err := expectMinArgs("sprintf", args, 1); err != nil {
		return NewNull(), err
	}
	format, err := stringArg("sprintf", args, 0)
	if err != nil {
		return NewNull(), err
	}
	text, err := formatValues("sprintf", format, args[1:])
	if err != nil {
		return NewNull(), err
	}
	return NewString(text), nil
}

func builtinPuts(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("puts", args, 1); err != nil {
		return NewNull(), err
	}
	return NewNull(), exec.stdout.WriteText(args[0].String() + "\n")
}

func builtinPutchar(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("putchar", args, 1); err != nil {
		return NewNull(), err
	}
	c, err := charArg("putchar", args, 0)
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), exec.stdout.WriteText(c)
}

func builtinGetchar(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("getchar", args, 0); err != nil {
		return NewNull(), err
	}
	return readChar(exec.stdin)
}
