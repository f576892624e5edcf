package tinyc

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	if v.kind == KindInt {
		return v.data.(int64)
	}
	return 0
}

func (v Value) Str() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	return ""
}

func (v Value) Function() *ScriptFunction {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*ScriptFunction)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) File() *FileHandle {
	if v.kind != KindFile {
		return nil
	}
	return v.data.(*FileHandle)
}

func (v Value) IsCallable() bool {
	return v.kind == KindFunction || v.kind == KindBuiltin
}
