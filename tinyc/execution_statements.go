package tinyc

// evalStatements runs stmts in env. The bool result reports that a return
// statement executed and the value must propagate to the call boundary.
func (exec *Execution) evalStatements(stmts []Statement, env *Env) (Value, bool, error) {
	result := NewNull()
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return NewNull(), false, exec.wrapError(err, stmt.Pos())
		}
		val, returned, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewNull(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

// evalBlock runs block in a fresh child scope of parent.
func (exec *Execution) evalBlock(block *BlockStmt, parent *Env) (Value, bool, error) {
	return exec.evalStatements(block.Statements, newEnv(parent))
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, env)
		return val, false, err
	case *VarDecl:
		val := NewNull()
		if s.Value != nil {
			var err error
			val, err = exec.evalExpression(s.Value, env)
			if err != nil {
				return NewNull(), false, err
			}
		}
		if !env.Define(s.Name, val) {
			return NewNull(), false, exec.errorKindAt(ErrRedeclaration, s.Pos(), "%s is already declared in this scope", s.Name)
		}
		return NewNull(), false, nil
	case *FunctionStmt:
		fn := &ScriptFunction{Name: s.Name, Params: s.Params, Body: s.Body, Env: exec.globals, Pos: s.Pos()}
		if !exec.globals.Define(s.Name, NewFunction(fn)) {
			return NewNull(), false, exec.errorKindAt(ErrRedeclaration, s.Pos(), "%s is already declared in this scope", s.Name)
		}
		return NewNull(), false, nil
	case *ReturnStmt:
		if s.Value == nil {
			return NewNull(), true, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNull(), false, err
		}
		return val, true, nil
	case *BlockStmt:
		return exec.evalBlock(s, env)
	case *IfStmt:
		cond, err := exec.evalCondition("if", s.Condition, env)
		if err != nil {
			return NewNull(), false, err
		}
		if cond {
			return exec.evalBlock(s.Consequent, env)
		}
		if s.Alternate != nil {
			return exec.evalBlock(s.Alternate, env)
		}
		return NewNull(), false, nil
	case *WhileStmt:
		return exec.evalWhileStatement(s, env)
	default:
		return NewNull(), false, exec.errorKindAt(ErrSyntax, stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *Execution) evalWhileStatement(s *WhileStmt, env *Env) (Value, bool, error) {
	for {
		cond, err := exec.evalCondition("while", s.Condition, env)
		if err != nil {
			return NewNull(), false, err
		}
		if !cond {
			return NewNull(), false, nil
		}
		val, returned, err := exec.evalBlock(s.Body, env)
		if err != nil {
			return NewNull(), false, err
		}
		if returned {
			return val, true, nil
		}
		if err := exec.step(); err != nil {
			return NewNull(), false, exec.wrapError(err, s.Pos())
		}
	}
}

// evalCondition requires a Bool; there is no truthiness coercion.
func (exec *Execution) evalCondition(construct string, expr Expression, env *Env) (bool, error) {
	val, err := exec.evalExpression(expr, env)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.errorKindAt(ErrTypeMismatch, expr.Pos(), "%s condition must be bool, got %s", construct, val.Kind())
	}
	return val.Bool(), nil
}
