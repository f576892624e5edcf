package tinyc

import (
	"unicode/utf8"
)

func registerStdlib(e *Engine) {
	e.RegisterBuiltin("printf", builtinPrintf)
	e.RegisterBuiltin("sprintf", builtinSprintf)
	e.RegisterBuiltin("puts", builtinPuts)
	e.RegisterBuiltin("putchar", builtinPutchar)
	e.RegisterBuiltin("getchar", builtinGetchar)

	e.RegisterBuiltin("fopen", builtinFopen)
	e.RegisterBuiltin("fclose", builtinFclose)
	e.RegisterBuiltin("fprintf", builtinFprintf)
	e.RegisterBuiltin("fputs", builtinFputs)
	e.RegisterBuiltin("fputc", builtinFputc)
	e.RegisterBuiltin("putc", builtinFputc)
	e.RegisterBuiltin("fgets", builtinFgets)
	e.RegisterBuiltin("fgetc", builtinFgetc)
	e.RegisterBuiltin("getc", builtinFgetc)
	e.RegisterBuiltin("feof", builtinFeof)
	e.RegisterBuiltin("ferror", builtinFerror)
	e.RegisterBuiltin("clearerr", builtinClearerr)
	e.RegisterBuiltin("ftell", builtinFtell)
	e.RegisterBuiltin("fseek", builtinFseek)
	e.RegisterBuiltin("rewind", builtinRewind)
	e.RegisterBuiltin("fflush", builtinFflush)

	e.RegisterBuiltin("rename", builtinRename)
	e.RegisterBuiltin("remove", builtinRemove)
}

func expectArgs(name string, args []Value, n int) error {
	if len(args) != n {
		plural := "s"
		if n == 1 {
			plural = ""
		}
		return errorf(ErrArityMismatch, "%s expects %d argument%s, got %d", name, n, plural, len(args))
	}
	return nil
}

func expectMinArgs(name string, args []Value, n int) error {
	if len(args) < n {
		return errorf(ErrArityMismatch, "%s expects at least %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func stringArg(name string, args []Value, i int) (string, error) {
	if args[i].Kind() != KindString {
		return "", errorf(ErrTypeMismatch, "%s argument %d must be string, got %s", name, i+1, args[i].Kind())
	}
	return args[i].Str(), nil
}

func intArg(name string, args []Value, i int) (int64, error) {
	if args[i].Kind() != KindInt {
		return 0, errorf(ErrTypeMismatch, "%s argument %d must be int, got %s", name, i+1, args[i].Kind())
	}
	return args[i].Int(), nil
}

func fileArg(name string, args []Value, i int) (*FileHandle, error) {
	if args[i].Kind() != KindFile {
		return nil, errorf(ErrTypeMismatch, "%s argument %d must be file, got %s", name, i+1, args[i].Kind())
	}
	return args[i].File(), nil
}

// charArg accepts a string, using its first character, or an int that is a
// byte value or a Unicode code point. It returns the UTF-8 encoding to write.
func charArg(name string, args []Value, i int) (string, error) {
	switch args[i].Kind() {
	case KindString:
		s := args[i].Str()
		if s == "" {
			return "", errorf(ErrTypeMismatch, "%s argument %d must be a non-empty string", name, i+1)
		}
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s[:size], nil
		}
		return string(r), nil
	case KindInt:
		n := args[i].Int()
		if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return "", errorf(ErrTypeMismatch, "%s argument %d is not a character code: %d", name, i+1, n)
		}
		if n < utf8.RuneSelf {
			return string([]byte{byte(n)}), nil
		}
		return string(rune(n)), nil
	default:
		return "", errorf(ErrTypeMismatch, "%s argument %d must be string or int, got %s", name, i+1, args[i].Kind())
	}
}

// readChar maps a single-byte read to a one-character string, or null at end
// of file or on a read failure.
func readChar(h *FileHandle) (Value, error) {
	b, ok, err := h.Getc()
	if err != nil {
		return NewNull(), err
	}
	if !ok {
		return NewNull(), nil
	}
	return NewString(string([]byte{b})), nil
}
