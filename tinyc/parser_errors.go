package tinyc

import (
	"fmt"
)

var tokenLabels = map[TokenType]string{
	tokenIllegal: "invalid token",
	tokenEOF:     "end of input",
	tokenIdent:   "identifier",
	tokenInt:     "integer",
	tokenString:  "string",
}

// tokenLabel names a token type for error messages. Keywords are quoted
// with single quotes and punctuation with double quotes.
func tokenLabel(tt TokenType) string {
	if label, ok := tokenLabels[tt]; ok {
		return label
	}
	if _, keyword := keywords[string(tt)]; keyword {
		return "'" + string(tt) + "'"
	}
	return fmt.Sprintf("%q", string(tt))
}

// Errors after a lexical error are suppressed since the lexer already
// reported the bad token.
func (p *parser) errorExpected(tok Token, expected string) {
	if tok.Type != tokenIllegal {
		p.addError(ErrSyntax, tok.Pos, "expected "+expected+", got "+tokenLabel(tok.Type))
	}
}

func (p *parser) errorUnexpected(tok Token) {
	if tok.Type != tokenIllegal {
		p.addError(ErrSyntax, tok.Pos, "unexpected token "+tokenLabel(tok.Type))
	}
}

func (p *parser) addError(kind ErrorKind, pos Position, msg string) {
	if p.err == nil {
		p.err = newCompileError(kind, pos, msg, p.lex.input)
	}
}
