package internal

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func scanSource(source string) *interpreterState {
	logger, _ := test.NewNullLogger()
	state := newInterpreterState(source, logger)
	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()
	return state
}

func TestScanTokens(t *testing.T) {
	state := scanSource("var x = 12.5 + 3; // comment\nprint \"hi\" != nil;")
	if len(state.diagnostics) != 0 {
		t.Fatalf("Unexpected errors: %v", state.diagnostics)
	}

	expected := []struct {
		token   tokenType
		lexeme  string
		literal interface{}
		line    int
	}{
		{tkVar, "var", nil, 1},
		{tkIdentifier, "x", nil, 1},
		{tkEqual, "=", nil, 1},
		{tkFloat, "12.5", 12.5, 1},
		{tkPlus, "+", nil, 1},
		{tkInteger, "3", int64(3), 1},
		{tkSemicolon, ";", nil, 1},
		{tkPrint, "print", nil, 2},
		{tkString, "\"hi\"", "hi", 2},
		{tkBangEqual, "!=", nil, 2},
		{tkNil, "nil", nil, 2},
		{tkSemicolon, ";", nil, 2},
		{tkEOF, "", nil, 2},
	}

	if len(state.tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(expected), len(state.tokens), state.tokens)
	}
	for i, want := range expected {
		got := state.tokens[i]
		if got.token != want.token || got.lexeme != want.lexeme || got.literal != want.literal || got.line != want.line {
			t.Errorf("Token %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestScanOperators(t *testing.T) {
	state := scanSource("(){},.-+;*/ ! != = == < <= > >=")
	expected := []tokenType{
		tkLeftParen, tkRightParen, tkLeftBrace, tkRightBrace, tkComma, tkDot,
		tkMinus, tkPlus, tkSemicolon, tkStar, tkSlash,
		tkBang, tkBangEqual, tkEqual, tkEqualEqual,
		tkLess, tkLessEqual, tkGreater, tkGreaterEqual, tkEOF,
	}
	if len(state.tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d", len(expected), len(state.tokens))
	}
	for i, tk := range expected {
		if state.tokens[i].token != tk {
			t.Errorf("Token %d: expected %v, got %v", i, tk, state.tokens[i].token)
		}
	}
}

func TestScanKeywords(t *testing.T) {
	for word, tk := range keywords {
		state := scanSource(word)
		if state.tokens[0].token != tk {
			t.Errorf("Keyword %s scanned as %v", word, state.tokens[0].token)
		}
	}

	state := scanSource("classy _under var1")
	for i := 0; i < 3; i++ {
		if state.tokens[i].token != tkIdentifier {
			t.Errorf("Token %q should be an identifier", state.tokens[i].lexeme)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	// A trailing dot is not part of the number
	state := scanSource("1.x")
	if state.tokens[0].token != tkInteger || state.tokens[1].token != tkDot {
		t.Errorf("Expected integer followed by dot, got %v", state.tokens)
	}

	state = scanSource("99999999999999999999")
	if len(state.diagnostics) != 1 || state.diagnostics[0].Message != errNumberRange.Error() {
		t.Errorf("Expected out of range error, got %v", state.diagnostics)
	}
}

func TestScanErrors(t *testing.T) {
	state := scanSource("var a = 1;\n@")
	if len(state.diagnostics) != 1 {
		t.Fatalf("Expected one error, got %v", state.diagnostics)
	}
	if d := state.diagnostics[0]; d.Kind != LexicalError || d.String() != "[line 2] Error: Unexpected character." {
		t.Errorf("Unexpected diagnostic %q", d.String())
	}

	state = scanSource("\"abc\ndef")
	if len(state.diagnostics) != 1 {
		t.Fatalf("Expected one error, got %v", state.diagnostics)
	}
	if d := state.diagnostics[0]; d.String() != "[line 2] Error: Unterminated string." {
		t.Errorf("Unexpected diagnostic %q", d.String())
	}

	// Scanning continues after an error
	state = scanSource("@ 1")
	if state.tokens[0].token != tkInteger {
		t.Errorf("Expected scanning to continue after an error, got %v", state.tokens)
	}
}
