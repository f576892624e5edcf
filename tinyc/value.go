package tinyc

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindString
	KindFunction
	KindBuiltin
	KindFile
)

// Value is the single runtime type manipulated by TinyC programs.
type Value struct {
	kind ValueKind
	data any
}

type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// BuiltinFunc receives already-evaluated arguments. Natives validate their
// own arity.
type BuiltinFunc func(exec *Execution, args []Value) (Value, error)

// ScriptFunction is a declared function. Env is always the global scope.
type ScriptFunction struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Env    *Env
	Pos    Position
}
