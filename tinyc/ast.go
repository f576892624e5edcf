package tinyc

// Node is any syntax tree element. Pos is where the element starts.
type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// at is embedded by every node to record its start.
type at Position

func (a at) Pos() Position { return Position(a) }

type stmt struct{}

func (stmt) stmtNode() {}

type expr struct{}

func (expr) exprNode() {}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

// Functions returns the top-level function declarations in source order.
func (p *Program) Functions() []*FunctionStmt {
	var fns []*FunctionStmt
	for _, s := range p.Statements {
		if fn, ok := s.(*FunctionStmt); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

type (
	FunctionStmt struct {
		stmt
		at
		Name   string
		Params []string
		Body   *BlockStmt
	}

	// VarDecl declares Name in the innermost scope. Value is nil for a bare
	// `int x;`, which binds null.
	VarDecl struct {
		stmt
		at
		Name  string
		Value Expression
	}

	ReturnStmt struct {
		stmt
		at
		Value Expression
	}

	ExprStmt struct {
		stmt
		at
		Expr Expression
	}

	// IfStmt holds an optional else block. An `else if` chain is stored as
	// an else block whose only statement is the nested IfStmt.
	IfStmt struct {
		stmt
		at
		Condition  Expression
		Consequent *BlockStmt
		Alternate  *BlockStmt
	}

	WhileStmt struct {
		stmt
		at
		Condition Expression
		Body      *BlockStmt
	}

	BlockStmt struct {
		stmt
		at
		Statements []Statement
	}
)

type (
	Identifier struct {
		expr
		at
		Name string
	}

	IntegerLiteral struct {
		expr
		at
		Value int64
	}

	StringLiteral struct {
		expr
		at
		Value string
	}

	BoolLiteral struct {
		expr
		at
		Value bool
	}

	NullLiteral struct {
		expr
		at
	}

	AssignExpr struct {
		expr
		at
		Name  string
		Value Expression
	}

	UnaryExpr struct {
		expr
		at
		Operator TokenType
		Right    Expression
	}

	BinaryExpr struct {
		expr
		at
		Left     Expression
		Operator TokenType
		Right    Expression
	}

	CallExpr struct {
		expr
		at
		Callee *Identifier
		Args   []Expression
	}
)

// Inspect walks the tree rooted at node in depth-first order, calling fn for
// each node. Children are skipped when fn returns false.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Statements {
			Inspect(stmt, fn)
		}
	case *FunctionStmt:
		Inspect(n.Body, fn)
	case *BlockStmt:
		for _, stmt := range n.Statements {
			Inspect(stmt, fn)
		}
	case *VarDecl:
		if n.Value != nil {
			Inspect(n.Value, fn)
		}
	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, fn)
		}
	case *ExprStmt:
		Inspect(n.Expr, fn)
	case *IfStmt:
		Inspect(n.Condition, fn)
		Inspect(n.Consequent, fn)
		if n.Alternate != nil {
			Inspect(n.Alternate, fn)
		}
	case *WhileStmt:
		Inspect(n.Condition, fn)
		Inspect(n.Body, fn)
	case *AssignExpr:
		Inspect(n.Value, fn)
	case *UnaryExpr:
		Inspect(n.Right, fn)
	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *CallExpr:
		Inspect(n.Callee, fn)
		for _, arg := range n.Args {
			Inspect(arg, fn)
		}
	}
}
