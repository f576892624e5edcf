package tinyc

import (
	"fmt"
	"strconv"
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String returns the display form used by %s and puts.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.data.(bool))
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindString:
		return v.data.(string)
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.data.(*ScriptFunction).Name)
	case KindBuiltin:
		return fmt.Sprintf("<builtin %s>", v.data.(*Builtin).Name)
	case KindFile:
		return fmt.Sprintf("<file %s>", v.data.(*FileHandle).Name())
	default:
		return ""
	}
}

// Inspect renders v the way a REPL echoes it: strings are quoted.
func (v Value) Inspect() string {
	if v.kind == KindString {
		return strconv.Quote(v.data.(string))
	}
	return v.String()
}

// Equal is structural for scalars and identity for functions and files.
// Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.data.(bool) == other.data.(bool)
	case KindInt:
		return v.data.(int64) == other.data.(int64)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindFunction:
		return v.data.(*ScriptFunction) == other.data.(*ScriptFunction)
	case KindBuiltin:
		return v.data.(*Builtin) == other.data.(*Builtin)
	case KindFile:
		return v.data.(*FileHandle) == other.data.(*FileHandle)
	default:
		return false
	}
}
