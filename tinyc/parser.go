package tinyc

// Binding powers, weakest first.
const (
	bindNone = iota
	bindAssign
	bindEquality
	bindCompare
	bindAdditive
	bindMultiplicative
	bindUnary
	bindCall
)

// parseRule says how a token behaves at the start of an expression (prefix)
// and after a complete operand (infix), and how tightly it binds as infix.
type parseRule struct {
	prefix func(*parser) Expression
	infix  func(*parser, Expression) Expression
	power  int
}

// rules is filled in init because the rule functions recurse into
// parseExpression, which reads rules.
var rules map[TokenType]parseRule

func init() {
	binary := (*parser).parseBinary
	rules = map[TokenType]parseRule{
		tokenIdent:    {prefix: (*parser).parseIdentifier},
		tokenInt:      {prefix: (*parser).parseIntegerLiteral},
		tokenString:   {prefix: (*parser).parseStringLiteral},
		tokenTrue:     {prefix: (*parser).parseBooleanLiteral},
		tokenFalse:    {prefix: (*parser).parseBooleanLiteral},
		tokenNull:     {prefix: (*parser).parseNullLiteral},
		tokenLParen:   {prefix: (*parser).parseParenthesized, infix: (*parser).parseCall, power: bindCall},
		tokenMinus:    {prefix: (*parser).parseNegation, infix: binary, power: bindAdditive},
		tokenPlus:     {infix: binary, power: bindAdditive},
		tokenAsterisk: {infix: binary, power: bindMultiplicative},
		tokenSlash:    {infix: binary, power: bindMultiplicative},
		tokenLT:       {infix: binary, power: bindCompare},
		tokenGT:       {infix: binary, power: bindCompare},
		tokenEQ:       {infix: binary, power: bindEquality},
		tokenNotEQ:    {infix: binary, power: bindEquality},
		tokenAssign:   {infix: (*parser).parseAssignment, power: bindAssign},
	}
}

// parser holds a one-token lookahead window over the lexer.
type parser struct {
	lex  *lexer
	tok  Token
	next Token

	// err is the first error; parsing stops as soon as it is set.
	err error

	// depth counts enclosing blocks.
	depth int
}

// Parse builds the syntax tree for a whole program. The first lexical or
// syntax error aborts parsing and is returned as a *CompileError.
func Parse(source string) (*Program, error) {
	p := &parser{lex: newLexer(source)}
	p.advance()
	p.advance()
	return p.parseProgram()
}

// advance shifts the window by one token. A lexical error is recorded when
// the bad token becomes current, so errors are reported in source order.
func (p *parser) advance() {
	p.tok = p.next
	p.next = p.lex.NextToken()
	if p.tok.Type == tokenIllegal {
		p.addError(ErrLexical, p.tok.Pos, p.tok.Literal)
	}
}

func (p *parser) failed() bool {
	return p.err != nil
}

func (p *parser) parseProgram() (*Program, error) {
	program := &Program{}
	for ; !p.failed() && p.tok.Type != tokenEOF; p.advance() {
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	if p.failed() {
		return nil, p.err
	}
	return program, nil
}

// expectPeek advances onto the lookahead token when it has type tt and
// records a syntax error otherwise.
func (p *parser) expectPeek(tt TokenType) bool {
	if p.next.Type != tt {
		p.errorExpected(p.next, tokenLabel(tt))
		return false
	}
	p.advance()
	return true
}

func bindingPower(tt TokenType) int {
	return rules[tt].power
}
