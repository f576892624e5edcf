package tinyc

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenInt    TokenType = "INT"
	tokenString TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"

	// Keyword token types are spelled like the keyword itself.
	tokenTypeInt TokenType = "int"
	tokenReturn  TokenType = "return"
	tokenIf      TokenType = "if"
	tokenElse    TokenType = "else"
	tokenWhile   TokenType = "while"
	tokenTrue    TokenType = "true"
	tokenFalse   TokenType = "false"
	tokenNull    TokenType = "null"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a 1-based line and column in the source file.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"int":    tokenTypeInt,
	"return": tokenReturn,
	"if":     tokenIf,
	"else":   tokenElse,
	"while":  tokenWhile,
	"true":   tokenTrue,
	"false":  tokenFalse,
	"null":   tokenNull,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	return []string{"int", "if", "else", "while", "return", "true", "false", "null"}
}
