package tinyc

// Env is one lexical scope. Function frames chain directly to the global
// scope.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, false
}

// Define binds name in this scope. Binding a name already present in the
// same scope fails; names from enclosing scopes are shadowed.
func (e *Env) Define(name string, val Value) bool {
	if _, exists := e.values[name]; exists {
		return false
	}
	e.values[name] = val
	return true
}

// Assign updates the nearest existing binding and reports whether one was
// found.
func (e *Env) Assign(name string, val Value) bool {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			scope.values[name] = val
			return true
		}
	}
	return false
}

func (e *Env) set(name string, val Value) {
	e.values[name] = val
}

// Names returns the names bound directly in this scope.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
