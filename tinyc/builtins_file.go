package tinyc

import (
	"log/slog"
)

// fopen reports failure with null rather than raising.
func builtinFopen(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fopen", args, 2); err != nil {
		return NewNull(), err
	}
	path, err := stringArg("fopen", args, 0)
	if err != nil {
		return NewNull(), err
	}
	mode, err := stringArg("fopen", args, 1)
	if err != nil {
		return NewNull(), err
	}
	h, err := openFileHandle(exec.host.FS, path, mode)
	if err != nil {
		exec.logger.Debug("fopen failed", slog.String("path", path), slog.String("mode", mode), slog.Any("error", err))
		return NewNull(), nil
	}
	exec.logger.Debug("fopen", slog.String("path", path), slog.String("mode", mode))
	return NewFile(h), nil
}

func builtinFclose(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fclose", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fclose", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := h.Close(); err != nil {
		return NewNull(), err
	}
	exec.logger.Debug("fclose", slog.String("path", h.Name()))
	return NewInt(0), nil
}

func builtinFprintf(exec *Execution, args []Value) (Value, error) {
	if err := expectMinArgs("fprintf", args, 2); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fprintf", args, 0)
	if err != nil {
		return NewNull(), err
	}
	format, err := stringArg("fprintf", args, 1)
	if err != nil {
		return NewNull(), err
	}
	text, err := formatValues("fprintf", format, args[2:])
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), h.WriteText(text)
}

func builtinFputs(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fputs", args, 2); err != nil {
		return NewNull(), err
	}
	s, err := stringArg("fputs", args, 0)
	if err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fputs", args, 1)
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), h.WriteText(s)
}

func builtinFputc(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fputc", args, 2); err != nil {
		return NewNull(), err
	}
	c, err := charArg("fputc", args, 0)
	if err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fputc", args, 1)
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), h.WriteText(c)
}

func builtinFgets(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fgets", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fgets", args, 0)
	if err != nil {
		return NewNull(), err
	}
	line, ok, err := h.Gets()
	if err != nil {
		return NewNull(), err
	}
	if !ok {
		return NewNull(), nil
	}
	return NewString(line), nil
}

func builtinFgetc(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fgetc", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fgetc", args, 0)
	if err != nil {
		return NewNull(), err
	}
	return readChar(h)
}

func builtinFeof(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("feof", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("feof", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := h.checkOpen("feof"); err != nil {
		return NewNull(), err
	}
	return NewBool(h.AtEOF()), nil
}

func builtinFerror(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("ferror", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("ferror", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := h.checkOpen("ferror"); err != nil {
		return NewNull(), err
	}
	return NewBool(h.HasError()), nil
}

func builtinClearerr(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("clearerr", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("clearerr", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := h.checkOpen("clearerr"); err != nil {
		return NewNull(), err
	}
	h.ClearErr()
	return NewNull(), nil
}

func builtinFtell(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("ftell", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("ftell", args, 0)
	if err != nil {
		return NewNull(), err
	}
	off, err := h.Tell()
	if err != nil {
		return NewNull(), err
	}
	return NewInt(off), nil
}

func builtinFseek(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fseek", args, 3); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fseek", args, 0)
	if err != nil {
		return NewNull(), err
	}
	offset, err := intArg("fseek", args, 1)
	if err != nil {
		return NewNull(), err
	}
	whence, err := intArg("fseek", args, 2)
	if err != nil {
		return NewNull(), err
	}
	ok, err := h.SeekTo(offset, int(whence))
	if err != nil {
		return NewNull(), err
	}
	if !ok {
		return NewInt(-1), nil
	}
	return NewInt(0), nil
}

func builtinRewind(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("rewind", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("rewind", args, 0)
	if err != nil {
		return NewNull(), err
	}
	return NewNull(), h.Rewind()
}

func builtinFflush(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("fflush", args, 1); err != nil {
		return NewNull(), err
	}
	h, err := fileArg("fflush", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := h.Flush(); err != nil {
		return NewNull(), err
	}
	return NewInt(0), nil
}

// rename and remove report success as a bool.
func builtinRename(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("rename", args, 2); err != nil {
		return NewNull(), err
	}
	oldpath, err := stringArg("rename", args, 0)
	if err != nil {
		return NewNull(), err
	}
	newpath, err := stringArg("rename", args, 1)
	if err != nil {
		return NewNull(), err
	}
	if err := exec.host.FS.Rename(oldpath, newpath); err != nil {
		exec.logger.Debug("rename failed", slog.String("from", oldpath), slog.String("to", newpath), slog.Any("error", err))
		return NewBool(false), nil
	}
	return NewBool(true), nil
}

func builtinRemove(exec *Execution, args []Value) (Value, error) {
	if err := expectArgs("remove", args, 1); err != nil {
		return NewNull(), err
	}
	path, err := stringArg("remove", args, 0)
	if err != nil {
		return NewNull(), err
	}
	if err := exec.host.FS.Remove(path); err != nil {
		exec.logger.Debug("remove failed", slog.String("path", path), slog.Any("error", err))
		return NewBool(false), nil
	}
	return NewBool(true), nil
}
