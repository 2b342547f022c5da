package lexer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/thisisjab/plzero/fault"
	"github.com/thisisjab/plzero/token"
)

// Lexer scans a read-only byte view of source text. It never writes to input.
type Lexer struct {
	input   []byte
	pos     int  // position of the current character in the input
	readPos int  // position of the next character to be read
	char    byte // current character being processed, only meaningful when pos < len(input)
	unicode bool // accept non-ASCII letters and spaces (input must then be valid UTF-8)
}

type Option func(*Lexer)

// WithUnicode makes the lexer decode non-ASCII bytes as UTF-8 so that Unicode letters may
// appear in identifiers and Unicode spaces separate tokens.
func WithUnicode() Option {
	return func(l *Lexer) {
		l.unicode = true
	}
}

func New(input []byte, opts ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Lex scans the whole input with default options.
func Lex(input []byte) ([]token.Token, error) {
	return New(input).Lex()
}

// Lex consumes the remaining input. On the first error it returns no tokens at all.
func (l *Lexer) Lex() ([]token.Token, error) {
	tokens := make([]token.Token, 0)
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.char = 0
		l.pos = len(l.input)
		return
	}
	l.char = l.input[l.readPos]
	l.pos = l.readPos
	l.readPos++
}

// advance moves past n bytes starting at the current position.
func (l *Lexer) advance(n int) {
	l.readPos = l.pos + n
	l.readChar()
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// decodeRune decodes the rune at the current position. Only called for non-ASCII bytes.
func (l *Lexer) decodeRune() (rune, int, error) {
	r, size := utf8.DecodeRune(l.input[l.pos:])
	if r == utf8.RuneError && size <= 1 {
		return r, size, l.invalidEncoding(l.pos)
	}
	return r, size, nil
}

// NextToken returns the next token. ok is false once the input is exhausted.
func (l *Lexer) NextToken() (token.Token, bool, error) {
	var tok token.Token

	if err := l.skipWhitespace(); err != nil {
		return token.Token{}, false, err
	}

	if l.atEOF() {
		return token.Token{}, false, nil
	}

	switch l.char {
	case ':':
		if l.peekChar() != '=' {
			return token.Token{}, false, l.malformedOperator(l.pos)
		}
		l.readChar()
		tok = token.New(token.ASSIGN)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.New(token.LESSEQUAL)
		} else {
			tok = token.New(token.LESS)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.New(token.GREATEREQUAL)
		} else {
			tok = token.New(token.GREATER)
		}
	case '=':
		tok = token.New(token.EQUAL)
	case '#':
		tok = token.New(token.HASH)
	case '+':
		tok = token.New(token.PLUS)
	case '-':
		tok = token.New(token.MINUS)
	case '*':
		tok = token.New(token.MULTIPLY)
	case '/':
		tok = token.New(token.DIVIDE)
	case '(':
		tok = token.New(token.LPAREN)
	case ')':
		tok = token.New(token.RPAREN)
	case '.':
		tok = token.New(token.DOT)
	case ',':
		tok = token.New(token.COMMA)
	case ';':
		tok = token.New(token.SEMICOLON)
	case '?':
		tok = token.New(token.QUESTION)
	case '!':
		tok = token.New(token.EXCLAMATION)
	default:
		switch {
		case isDigit(l.char):
			return l.readNumber()
		case isLetter(l.char):
			return l.readIdentifier()
		case l.unicode && l.char >= utf8.RuneSelf:
			r, size, err := l.decodeRune()
			if err != nil {
				return token.Token{}, false, err
			}
			if unicode.IsLetter(r) {
				return l.readIdentifier()
			}
			return token.Token{}, false, l.invalidCharacter(l.pos, size)
		default:
			return token.Token{}, false, l.invalidCharacter(l.pos, 1)
		}
	}

	l.readChar()
	return tok, true, nil
}

func (l *Lexer) readNumber() (token.Token, bool, error) {
	pos := l.pos

	for !l.atEOF() && isDigit(l.char) {
		l.readChar()
	}

	digits := string(l.input[pos:l.pos])

	value, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return token.Token{}, false, fault.New(fault.NumberOverflowCode,
			fmt.Sprintf("number literal %s at offset %d overflows uint32", digits, pos)).
			WithMetadata(fault.PositionMetadata{Fragment: digits, Offset: pos}).
			WithOriginal(err)
	}

	return token.Number(uint32(value)), true, nil
}

func (l *Lexer) readIdentifier() (token.Token, bool, error) {
	pos := l.pos

	for !l.atEOF() {
		if isLetter(l.char) || isDigit(l.char) {
			l.readChar()
			continue
		}
		if !l.unicode || l.char < utf8.RuneSelf {
			break
		}
		r, size, err := l.decodeRune()
		if err != nil {
			return token.Token{}, false, err
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance(size)
	}

	literal := string(l.input[pos:l.pos])

	if typ, ok := token.Lookup(literal); ok {
		return token.New(typ), true, nil
	}
	return token.Ident(literal), true, nil
}

func (l *Lexer) skipWhitespace() error {
	for !l.atEOF() {
		if isWhitespace(l.char) {
			l.readChar()
			continue
		}
		if !l.unicode || l.char < utf8.RuneSelf {
			return nil
		}
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			// Invalid sequences are reported by NextToken.
			return nil
		}
		l.advance(size)
	}
	return nil
}

func (l *Lexer) invalidCharacter(pos, size int) error {
	fragment := string(l.input[pos : pos+size])
	return fault.New(fault.InvalidCharacterCode, fmt.Sprintf("invalid character %q at offset %d", fragment, pos)).
		WithMetadata(fault.PositionMetadata{Fragment: fragment, Offset: pos})
}

func (l *Lexer) malformedOperator(pos int) error {
	fragment := string(l.input[pos : pos+1])
	return fault.New(fault.MalformedOperatorCode, fmt.Sprintf("malformed operator %q at offset %d: expected '=' after it", fragment, pos)).
		WithMetadata(fault.PositionMetadata{Fragment: fragment, Offset: pos})
}

func (l *Lexer) invalidEncoding(pos int) error {
	fragment := string(l.input[pos : pos+1])
	return fault.New(fault.InvalidEncodingCode, fmt.Sprintf("invalid UTF-8 byte %q at offset %d", fragment, pos)).
		WithMetadata(fault.PositionMetadata{Fragment: fragment, Offset: pos})
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
