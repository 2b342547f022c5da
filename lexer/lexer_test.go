package lexer

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/thisisjab/plzero/fault"
	"github.com/thisisjab/plzero/token"
)

func TestNextToken(t *testing.T) {
	input := `CONST max = 100;
	VAR arg, ret;

	PROCEDURE isprime;
	VAR i;
	BEGIN
		ret := 1;
		i := 2;
		WHILE i < arg DO
		BEGIN
			IF arg / i * i = arg THEN
			BEGIN
				ret := 0;
				i := arg
			END;
			i := i + 1
		END
	END;

	BEGIN
		arg := 2;
		WHILE arg <= max DO
		BEGIN
			CALL isprime;
			IF ret # 0 THEN ! arg;
			IF ODD arg THEN ? x;
			IF (arg - 1) >= 9 THEN arg := arg + 1;
			IF arg > 0 THEN arg := arg
		END
	END.
	`
	l := New([]byte(input))

	tests := []token.Token{
		token.New(token.CONST), token.Ident("max"), token.New(token.EQUAL), token.Number(100), token.New(token.SEMICOLON),
		token.New(token.VAR), token.Ident("arg"), token.New(token.COMMA), token.Ident("ret"), token.New(token.SEMICOLON),

		token.New(token.PROCEDURE), token.Ident("isprime"), token.New(token.SEMICOLON),
		token.New(token.VAR), token.Ident("i"), token.New(token.SEMICOLON),
		token.New(token.BEGIN),
		token.Ident("ret"), token.New(token.ASSIGN), token.Number(1), token.New(token.SEMICOLON),
		token.Ident("i"), token.New(token.ASSIGN), token.Number(2), token.New(token.SEMICOLON),
		token.New(token.WHILE), token.Ident("i"), token.New(token.LESS), token.Ident("arg"), token.New(token.DO),
		token.New(token.BEGIN),
		token.New(token.IF), token.Ident("arg"), token.New(token.DIVIDE), token.Ident("i"), token.New(token.MULTIPLY),
		token.Ident("i"), token.New(token.EQUAL), token.Ident("arg"), token.New(token.THEN),
		token.New(token.BEGIN),
		token.Ident("ret"), token.New(token.ASSIGN), token.Number(0), token.New(token.SEMICOLON),
		token.Ident("i"), token.New(token.ASSIGN), token.Ident("arg"),
		token.New(token.END), token.New(token.SEMICOLON),
		token.Ident("i"), token.New(token.ASSIGN), token.Ident("i"), token.New(token.PLUS), token.Number(1),
		token.New(token.END),
		token.New(token.END), token.New(token.SEMICOLON),

		token.New(token.BEGIN),
		token.Ident("arg"), token.New(token.ASSIGN), token.Number(2), token.New(token.SEMICOLON),
		token.New(token.WHILE), token.Ident("arg"), token.New(token.LESSEQUAL), token.Ident("max"), token.New(token.DO),
		token.New(token.BEGIN),
		token.New(token.CALL), token.Ident("isprime"), token.New(token.SEMICOLON),
		token.New(token.IF), token.Ident("ret"), token.New(token.HASH), token.Number(0), token.New(token.THEN),
		token.New(token.EXCLAMATION), token.Ident("arg"), token.New(token.SEMICOLON),
		token.New(token.IF), token.New(token.ODD), token.Ident("arg"), token.New(token.THEN),
		token.New(token.QUESTION), token.Ident("x"), token.New(token.SEMICOLON),
		token.New(token.IF), token.New(token.LPAREN), token.Ident("arg"), token.New(token.MINUS), token.Number(1),
		token.New(token.RPAREN), token.New(token.GREATEREQUAL), token.Number(9), token.New(token.THEN),
		token.Ident("arg"), token.New(token.ASSIGN), token.Ident("arg"), token.New(token.PLUS), token.Number(1),
		token.New(token.SEMICOLON),
		token.New(token.IF), token.Ident("arg"), token.New(token.GREATER), token.Number(0), token.New(token.THEN),
		token.Ident("arg"), token.New(token.ASSIGN), token.Ident("arg"),
		token.New(token.END),
		token.New(token.END), token.New(token.DOT),
	}

	for i, expected := range tests {
		tok, ok, err := l.NextToken()
		if err != nil {
			t.Fatalf("#%d - unexpected error: %v", i, err)
		}
		if !ok {
			t.Fatalf("#%d - unexpected end of input, expected `%s`", i, expected)
		}
		if tok != expected {
			t.Fatalf("#%d - expected `%s`, got `%s`", i, expected, tok)
		}
	}

	if tok, ok, err := l.NextToken(); ok || err != nil {
		t.Fatalf("expected end of input, got `%s` (ok=%v, err=%v)", tok, ok, err)
	}
	// Exhausted lexers stay exhausted.
	if _, ok, err := l.NextToken(); ok || err != nil {
		t.Fatalf("expected end of input on repeated call (ok=%v, err=%v)", ok, err)
	}
}

func TestLex(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Token
	}{
		{"", []token.Token{}},
		{" \t\r\n\v\f", []token.Token{}},
		{":=", []token.Token{token.New(token.ASSIGN)}},
		{"<=", []token.Token{token.New(token.LESSEQUAL)}},
		{">=", []token.Token{token.New(token.GREATEREQUAL)}},
		{"<", []token.Token{token.New(token.LESS)}},
		{">", []token.Token{token.New(token.GREATER)}},
		{"< =", []token.Token{token.New(token.LESS), token.New(token.EQUAL)}},
		{"<<=", []token.Token{token.New(token.LESS), token.New(token.LESSEQUAL)}},
		{"#", []token.Token{token.New(token.HASH)}},
		{"BEGIN", []token.Token{token.New(token.BEGIN)}},
		{"begin", []token.Token{token.Ident("begin")}},
		{"Begin", []token.Token{token.Ident("Begin")}},
		{"var", []token.Token{token.Ident("var")}},
		{"foo", []token.Token{token.Ident("foo")}},
		{"__dunder__", []token.Token{token.Ident("__dunder__")}},
		{"sneaky_snake", []token.Token{token.Ident("sneaky_snake")}},
		{"alphanum3r1c", []token.Token{token.Ident("alphanum3r1c")}},
		{"BEGINx", []token.Token{token.Ident("BEGINx")}},
		{"_", []token.Token{token.Ident("_")}},
		{"0", []token.Token{token.Number(0)}},
		{"007", []token.Token{token.Number(7)}},
		{"123456789", []token.Token{token.Number(123456789)}},
		{"4294967295", []token.Token{token.Number(4294967295)}},
		{"3.14", []token.Token{token.Number(3), token.New(token.DOT), token.Number(14)}},
		{"0x1234abcd", []token.Token{token.Number(0), token.Ident("x1234abcd")}},
		{"-5", []token.Token{token.New(token.MINUS), token.Number(5)}},
		{"12ab", []token.Token{token.Number(12), token.Ident("ab")}},
		{"x:=1", []token.Token{token.Ident("x"), token.New(token.ASSIGN), token.Number(1)}},
		{
			"BEGIN x := 1 + 2 END",
			[]token.Token{
				token.New(token.BEGIN), token.Ident("x"), token.New(token.ASSIGN), token.Number(1),
				token.New(token.PLUS), token.Number(2), token.New(token.END),
			},
		},
		{
			"#+-*/().,;?!=",
			[]token.Token{
				token.New(token.HASH), token.New(token.PLUS), token.New(token.MINUS), token.New(token.MULTIPLY),
				token.New(token.DIVIDE), token.New(token.LPAREN), token.New(token.RPAREN), token.New(token.DOT),
				token.New(token.COMMA), token.New(token.SEMICOLON), token.New(token.QUESTION),
				token.New(token.EXCLAMATION), token.New(token.EQUAL),
			},
		},
	}

	for i, tt := range tests {
		tokens, err := Lex([]byte(tt.input))
		if err != nil {
			t.Fatalf("#%d - Lex(%q): unexpected error: %v", i, tt.input, err)
		}
		if tokens == nil {
			t.Fatalf("#%d - Lex(%q): expected a non-nil slice", i, tt.input)
		}
		if !slices.Equal(tokens, tt.expected) {
			t.Fatalf("#%d - Lex(%q)\n%v,\nwant %v", i, tt.input, tokens, tt.expected)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input            string
		expectedCode     string
		expectedFragment string
		expectedOffset   int
	}{
		{":", string(fault.MalformedOperatorCode), ":", 0},
		{": =", string(fault.MalformedOperatorCode), ":", 0},
		{"x :", string(fault.MalformedOperatorCode), ":", 2},
		{"a :b", string(fault.MalformedOperatorCode), ":", 2},
		{"@", string(fault.InvalidCharacterCode), "@", 0},
		{"BEGIN x := 1 $ 2 END", string(fault.InvalidCharacterCode), "$", 13},
		{"\"str\"", string(fault.InvalidCharacterCode), "\"", 0},
		{"x\x00", string(fault.InvalidCharacterCode), "\x00", 1},
		{"é", string(fault.InvalidCharacterCode), "\xc3", 0},
		{"4294967296", string(fault.NumberOverflowCode), "4294967296", 0},
		{"x := 99999999999999999999", string(fault.NumberOverflowCode), "99999999999999999999", 5},
	}

	for i, tt := range tests {
		tokens, err := Lex([]byte(tt.input))
		if err == nil {
			t.Fatalf("#%d - Lex(%q): expected error, got %v", i, tt.input, tokens)
		}
		if tokens != nil {
			t.Fatalf("#%d - Lex(%q): expected no partial tokens, got %v", i, tt.input, tokens)
		}

		var f fault.Fault
		if !errors.As(err, &f) {
			t.Fatalf("#%d - Lex(%q): expected fault, got %T", i, tt.input, err)
		}
		if string(f.Code()) != tt.expectedCode {
			t.Fatalf("#%d - Lex(%q): expected code `%s`, got `%s`", i, tt.input, tt.expectedCode, f.Code())
		}

		p, ok := f.Position()
		if !ok {
			t.Fatalf("#%d - Lex(%q): expected position metadata", i, tt.input)
		}
		if p.Fragment != tt.expectedFragment {
			t.Fatalf("#%d - Lex(%q): expected fragment %q, got %q", i, tt.input, tt.expectedFragment, p.Fragment)
		}
		if p.Offset != tt.expectedOffset {
			t.Fatalf("#%d - Lex(%q): expected offset %d, got %d", i, tt.input, tt.expectedOffset, p.Offset)
		}
	}
}

func TestNumberOverflowWrapsRangeError(t *testing.T) {
	_, err := Lex([]byte("4294967296"))
	if !errors.Is(err, strconv.ErrRange) {
		t.Fatalf("expected strconv.ErrRange in chain, got %v", err)
	}
}

func TestLexUnicode(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Token
	}{
		{"ελπίδα := 1", []token.Token{token.Ident("ελπίδα"), token.New(token.ASSIGN), token.Number(1)}},
		{"x y", []token.Token{token.Ident("x"), token.Ident("y")}},
		{"größe2", []token.Token{token.Ident("größe2")}},
		{"BEGIN END", []token.Token{token.New(token.BEGIN), token.New(token.END)}},
	}

	for i, tt := range tests {
		tokens, err := New([]byte(tt.input), WithUnicode()).Lex()
		if err != nil {
			t.Fatalf("#%d - Lex(%q): unexpected error: %v", i, tt.input, err)
		}
		if !slices.Equal(tokens, tt.expected) {
			t.Fatalf("#%d - Lex(%q)\n%v,\nwant %v", i, tt.input, tokens, tt.expected)
		}
	}
}

func TestLexUnicodeErrors(t *testing.T) {
	tests := []struct {
		input          string
		expectedCode   string
		expectedOffset int
	}{
		{"\xff", string(fault.InvalidEncodingCode), 0},
		{"abc\xffdef", string(fault.InvalidEncodingCode), 3},
		{"x := \xc3", string(fault.InvalidEncodingCode), 5},
		{"€", string(fault.InvalidCharacterCode), 0},
	}

	for i, tt := range tests {
		_, err := New([]byte(tt.input), WithUnicode()).Lex()

		var f fault.Fault
		if !errors.As(err, &f) {
			t.Fatalf("#%d - Lex(%q): expected fault, got %v", i, tt.input, err)
		}
		if string(f.Code()) != tt.expectedCode {
			t.Fatalf("#%d - Lex(%q): expected code `%s`, got `%s`", i, tt.input, tt.expectedCode, f.Code())
		}
		p, _ := f.Position()
		if p.Offset != tt.expectedOffset {
			t.Fatalf("#%d - Lex(%q): expected offset %d, got %d", i, tt.input, tt.expectedOffset, p.Offset)
		}
	}
}

func TestLexDoesNotMutateInput(t *testing.T) {
	input := []byte("BEGIN x := 1 END")
	snapshot := slices.Clone(input)

	if _, err := Lex(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(input, snapshot) {
		t.Fatalf("input was modified: %q", input)
	}
}

func TestWhitespaceInsensitivity(t *testing.T) {
	lexemes := []string{"BEGIN", "x", ":=", "42", "<=", ">", "foo_1", "#", "END", "."}
	separators := []string{" ", "  ", "\n", "\t", " \r\n\t "}

	var expected []token.Token
	for _, lexeme := range lexemes {
		tokens, err := Lex([]byte(lexeme))
		if err != nil {
			t.Fatalf("Lex(%q): unexpected error: %v", lexeme, err)
		}
		expected = append(expected, tokens...)
	}

	for i, sep := range separators {
		input := strings.Join(lexemes, sep)
		tokens, err := Lex([]byte(input))
		if err != nil {
			t.Fatalf("#%d - Lex(%q): unexpected error: %v", i, input, err)
		}
		if !slices.Equal(tokens, expected) {
			t.Fatalf("#%d - Lex(%q)\n%v,\nwant %v", i, input, tokens, expected)
		}
	}
}

func TestDigitRuns(t *testing.T) {
	values := []uint64{0, 1, 9, 10, 255, 65535, 1 << 31, 4294967294, 4294967295}

	for i, v := range values {
		input := strconv.FormatUint(v, 10)
		tokens, err := Lex([]byte(input))
		if err != nil {
			t.Fatalf("#%d - Lex(%q): unexpected error: %v", i, input, err)
		}
		if len(tokens) != 1 || tokens[0] != token.Number(uint32(v)) {
			t.Fatalf("#%d - Lex(%q): expected [Number(%d)], got %v", i, input, v, tokens)
		}
	}
}

func TestRunsEndingAtEndOfInput(t *testing.T) {
	// Each input ends in the middle of a run or right after a lookahead character.
	inputs := []string{"1", "12", "a", "ab1", "<", ">", "x <", "y >", "1 ab", "a 12"}

	for i, input := range inputs {
		if _, err := Lex([]byte(input)); err != nil {
			t.Fatalf("#%d - Lex(%q): unexpected error: %v", i, input, err)
		}
	}

	// A sub-slice must not let the lexer read the bytes beyond its length.
	backing := []byte("12345:=")
	tokens, err := Lex(backing[:5])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != token.Number(12345) {
		t.Fatalf("expected [Number(12345)], got %v", tokens)
	}

	tokens, err = Lex(backing[:6])
	if err == nil {
		t.Fatalf("expected malformed operator for trailing colon, got %v", tokens)
	}
}

func FuzzLex(f *testing.F) {
	seeds := []string{
		"",
		"BEGIN x := 1 + 2 END",
		"3.14",
		"0x1234abcd",
		":",
		"4294967296",
		"CONST a = 1; VAR b; PROCEDURE p; BEGIN CALL p END.",
		"ελπίδα",
	}
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		snapshot := slices.Clone(input)

		tokens, err := Lex(input)
		if err != nil {
			if tokens != nil {
				t.Fatalf("partial tokens returned alongside error: %v", err)
			}
			var ft fault.Fault
			if !errors.As(err, &ft) || !ft.Code().IsLexical() {
				t.Fatalf("unexpected error type: %v", err)
			}
			p, ok := ft.Position()
			if !ok || p.Offset < 0 || p.Offset >= len(input) {
				t.Fatalf("fault offset out of range: %v", err)
			}
		}
		for _, tok := range tokens {
			if tok.Type == token.IDENT && tok.Literal == "" {
				t.Fatalf("empty identifier in %v", tokens)
			}
		}
		if !slices.Equal(input, snapshot) {
			t.Fatalf("input was modified")
		}

		// Unicode mode must never panic either.
		_, _ = New(input, WithUnicode()).Lex()
	})
}
