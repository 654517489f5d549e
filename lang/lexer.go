package lang

import (
	"iter"
	"strconv"
	"unicode/utf8"
)

// keywordFn is the only reserved word.
const keywordFn = "fn"

// Lexer splits one line of input into tokens on demand.
// A Lexer is single-use; construct a new one for each line.
type Lexer struct {
	src string
	pos int
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Next scans and returns the next token. Once the input is exhausted, Next
// returns a [KindEOF] token on every call.
func (l *Lexer) Next() (Token, error) {
	for l.pos < len(l.src) && l.src[l.pos] == ' ' {
		l.pos++
	}

	if l.pos >= len(l.src) {
		return Token{Kind: KindEOF}, nil
	}

	c := l.src[l.pos]

	switch {
	case isDigit(c):
		return l.number()
	case isIdentStart(c):
		return l.ident(), nil
	}

	if kind, ok := single[c]; ok {
		l.pos++

		return Token{Kind: kind}, nil
	}

	if c == '=' {
		l.pos++
		if l.pos < len(l.src) && l.src[l.pos] == '>' {
			l.pos++

			return Token{Kind: KindFnArrow}, nil
		}

		return Token{Kind: KindAssign}, nil
	}

	return Token{}, l.fail()
}

// All returns an iterator over the remaining tokens. Iteration ends after
// the first [KindEOF] token or the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == KindEOF {
				return
			}
		}
	}
}

var single = map[byte]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindMul,
	'/': KindDiv,
	'%': KindMod,
	'(': KindLParen,
	')': KindRParen,
}

func (l *Lexer) number() (Token, error) {
	start := l.pos
	l.digits()

	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		if l.pos+1 >= len(l.src) || !isDigit(l.src[l.pos+1]) {
			return Token{}, l.fail()
		}

		l.pos++
		l.digits()
	}

	text := l.src[start:l.pos]

	// Only range errors are possible here; they yield +Inf.
	v, _ := strconv.ParseFloat(text, 64)

	return Token{Kind: KindNumber, Text: text, Value: v}, nil
}

func (l *Lexer) digits() {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) ident() Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	text := l.src[start:l.pos]
	if text == keywordFn {
		return Token{Kind: KindFnKey, Text: text}
	}

	return Token{Kind: KindIdent, Text: text}
}

// fail reports the character at the cursor.
func (l *Lexer) fail() error {
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	return &LexError{Char: r, Offset: l.pos}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
