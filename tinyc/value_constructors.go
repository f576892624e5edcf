package tinyc

func NewNull() Value           { return Value{kind: KindNull} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn}}
}

func NewFunction(fn *ScriptFunction) Value {
	return Value{kind: KindFunction, data: fn}
}

func NewFile(h *FileHandle) Value {
	return Value{kind: KindFile, data: h}
}
