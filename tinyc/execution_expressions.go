package tinyc

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NullLiteral:
		return NewNull(), nil
	case *Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return NewNull(), exec.errorKindAt(ErrUndefinedName, e.Pos(), "undefined variable %s", e.Name)
		}
		return val, nil
	case *AssignExpr:
		val, err := exec.evalExpression(e.Value, env)
		if err != nil {
			return NewNull(), err
		}
		if !env.Assign(e.Name, val) {
			return NewNull(), exec.errorKindAt(ErrUndefinedName, e.Pos(), "assignment to undeclared variable %s", e.Name)
		}
		return val, nil
	case *UnaryExpr:
		right, err := exec.evalExpression(e.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return exec.evalUnaryExpression(e, right)
	case *BinaryExpr:
		left, err := exec.evalExpression(e.Left, env)
		if err != nil {
			return NewNull(), err
		}
		right, err := exec.evalExpression(e.Right, env)
		if err != nil {
			return NewNull(), err
		}
		return exec.evalBinaryExpression(e, left, right)
	case *CallExpr:
		return exec.evalCallExpression(e, env)
	default:
		return NewNull(), exec.errorKindAt(ErrSyntax, expr.Pos(), "unsupported expression %T", expr)
	}
}

func (exec *Execution) evalUnaryExpression(e *UnaryExpr, right Value) (Value, error) {
	if e.Operator != tokenMinus {
		return NewNull(), exec.errorKindAt(ErrSyntax, e.Pos(), "unsupported unary operator %s", e.Operator)
	}
	if right.Kind() != KindInt {
		return NewNull(), exec.errorKindAt(ErrTypeMismatch, e.Pos(), "operator - expects int operand, got %s", right.Kind())
	}
	return NewInt(-right.Int()), nil
}

func (exec *Execution) evalBinaryExpression(e *BinaryExpr, left, right Value) (Value, error) {
	switch e.Operator {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	}

	if left.Kind() != KindInt || right.Kind() != KindInt {
		return NewNull(), exec.errorKindAt(ErrTypeMismatch, e.Pos(), "operator %s expects int operands, got %s and %s", e.Operator, left.Kind(), right.Kind())
	}
	l, r := left.Int(), right.Int()

	switch e.Operator {
	case tokenPlus:
		return NewInt(l + r), nil
	case tokenMinus:
		return NewInt(l - r), nil
	case tokenAsterisk:
		return NewInt(l * r), nil
	case tokenSlash:
		if r == 0 {
			return NewNull(), exec.errorKindAt(ErrDivisionByZero, e.Pos(), "division by zero")
		}
		return NewInt(l / r), nil
	case tokenLT:
		return NewBool(l < r), nil
	case tokenGT:
		return NewBool(l > r), nil
	default:
		return NewNull(), exec.errorKindAt(ErrSyntax, e.Pos(), "unsupported operator %s", e.Operator)
	}
}
