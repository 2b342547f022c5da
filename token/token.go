package token

import (
	"encoding/json"
	"fmt"
)

const (
	ILLEGAL TokenType = iota

	// Identifiers + literals
	IDENT
	NUMBER

	keywordBeg
	CONST
	VAR
	PROCEDURE
	CALL
	BEGIN
	END
	IF
	THEN
	WHILE
	DO
	ODD
	keywordEnd

	operatorBeg
	ASSIGN
	EQUAL
	HASH
	LESS
	LESSEQUAL
	GREATER
	GREATEREQUAL
	PLUS
	MINUS
	MULTIPLY
	DIVIDE

	// Delimiters
	LPAREN
	RPAREN
	DOT
	COMMA
	SEMICOLON
	QUESTION
	EXCLAMATION
	operatorEnd
)

var names = [...]string{
	ILLEGAL:      "Illegal",
	IDENT:        "Identifier",
	NUMBER:       "Number",
	CONST:        "Const",
	VAR:          "Var",
	PROCEDURE:    "Procedure",
	CALL:         "Call",
	BEGIN:        "Begin",
	END:          "End",
	IF:           "If",
	THEN:         "Then",
	WHILE:        "While",
	DO:           "Do",
	ODD:          "Odd",
	ASSIGN:       "Assign",
	EQUAL:        "Equal",
	HASH:         "Hash",
	LESS:         "LessThan",
	LESSEQUAL:    "LessThanEqual",
	GREATER:      "GreaterThan",
	GREATEREQUAL: "GreaterThanEqual",
	PLUS:         "Plus",
	MINUS:        "Minus",
	MULTIPLY:     "Multiply",
	DIVIDE:       "Divide",
	LPAREN:       "LParen",
	RPAREN:       "RParen",
	DOT:          "Dot",
	COMMA:        "Comma",
	SEMICOLON:    "Semicolon",
	QUESTION:     "Question",
	EXCLAMATION:  "Exclamation",
}

type TokenType int

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsKeyword reports whether t is one of the reserved words.
func (t TokenType) IsKeyword() bool {
	return keywordBeg < t && t < keywordEnd
}

// IsOperator reports whether t is an operator or punctuation token.
func (t TokenType) IsOperator() bool {
	return operatorBeg < t && t < operatorEnd
}

// Token is a single lexical unit. Literal is only set for IDENT and Value only for NUMBER,
// so two tokens are equal with == exactly when they denote the same lexeme class and payload.
type Token struct {
	Type    TokenType
	Literal string
	Value   uint32
}

func New(t TokenType) Token {
	return Token{Type: t}
}

func Ident(text string) Token {
	return Token{Type: IDENT, Literal: text}
}

func Number(value uint32) Token {
	return Token{Type: NUMBER, Value: value}
}

// String returns the debug form of the token: Begin, Identifier("x"), Number(42).
func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	case NUMBER:
		return fmt.Sprintf("%s(%d)", t.Type, t.Value)
	default:
		return t.Type.String()
	}
}

type jsonToken struct {
	Kind  string  `json:"kind"`
	Text  string  `json:"text,omitempty"`
	Value *uint32 `json:"value,omitempty"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	jt := jsonToken{Kind: t.Type.String()}
	switch t.Type {
	case IDENT:
		jt.Text = t.Literal
	case NUMBER:
		v := t.Value
		jt.Value = &v
	}
	return json.Marshal(jt)
}
