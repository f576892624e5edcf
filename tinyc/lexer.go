package tinyc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		if l.ch == '\n' && l.width > 0 {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) atEOF() bool {
	return l.ch == 0 && l.width == 0
}

// NextToken scans and returns the next token. After the end of input it keeps
// returning EOF tokens.
func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	if l.atEOF() {
		tok.Type = tokenEOF
		return tok
	}

	switch l.ch {
	case '+':
		tok = l.single(tokenPlus)
	case '-':
		tok = l.single(tokenMinus)
	case '*':
		tok = l.single(tokenAsterisk)
	case '/':
		tok = l.single(tokenSlash)
	case '<':
		tok = l.single(tokenLT)
	case '>':
		tok = l.single(tokenGT)
	case '(':
		tok = l.single(tokenLParen)
	case ')':
		tok = l.single(tokenRParen)
	case '{':
		tok = l.single(tokenLBrace)
	case '}':
		tok = l.single(tokenRBrace)
	case ',':
		tok = l.single(tokenComma)
	case ';':
		tok = l.single(tokenSemicolon)
	case '=':
		if l.peekRune() == '=' {
			l.readRune()
			tok.Type = tokenEQ
			tok.Literal = "=="
		} else {
			tok.Type = tokenAssign
			tok.Literal = "="
		}
		l.readRune()
	case '!':
		if l.peekRune() != '=' {
			tok.Type = tokenIllegal
			tok.Literal = "unexpected character '!'"
			l.readRune()
			return tok
		}
		l.readRune()
		l.readRune()
		tok.Type = tokenNotEQ
		tok.Literal = "!="
	case '"':
		literal, err := l.readString()
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
		case isDigit(l.ch):
			literal := l.readNumber()
			if _, err := strconv.ParseInt(literal, 10, 64); err != nil {
				tok.Type = tokenIllegal
				tok.Literal = fmt.Sprintf("integer literal %s out of range", literal)
			} else {
				tok.Type = tokenInt
				tok.Literal = literal
			}
		default:
			tok.Type = tokenIllegal
			tok.Literal = fmt.Sprintf("unexpected character %q", l.ch)
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) single(tt TokenType) Token {
	tok := Token{Type: tt, Literal: string(tt), Pos: Position{Line: l.line, Column: l.column}}
	l.readRune()
	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.atEOF():
			return
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.ch) {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readNumber() string {
	start := l.currentOffset()
	for isDigit(l.ch) {
		l.readRune()
	}
	return l.input[start:l.currentOffset()]
}

func (l *lexer) readString() (string, string) {
	var sb strings.Builder
	line := l.line

	for {
		l.readRune()
		if l.atEOF() || l.ch == '\n' {
			return "", fmt.Sprintf("unterminated string starting on line %d", line)
		}
		switch l.ch {
		case '"':
			l.readRune()
			return sb.String(), ""
		case '\\':
			switch next := l.peekRune(); next {
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			case 'r':
				l.readRune()
				sb.WriteByte('\r')
			case '"', '\\':
				l.readRune()
				sb.WriteRune(next)
			default:
				// unknown escapes are kept verbatim
				sb.WriteByte('\\')
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

// Tokenize scans source to the end and returns every token including the
// trailing EOF. The first malformed token stops scanning with a lexical error.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == tokenIllegal {
			return tokens, newCompileError(ErrLexical, tok.Pos, tok.Literal, source)
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens, nil
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
