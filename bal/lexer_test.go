package bal

import "testing"

func TestLexer_BasicTokens(t *testing.T) {
	input := `greeter { "goal": "say hi" }`
	tokens := Tokenize(input)

	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenIdent, "greeter"},
		{TokenLBrace, "{"},
		{TokenString, "goal"},
		{TokenColon, ":"},
		{TokenString, "say hi"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, e := range expected {
		if tokens[i].Type != e.typ {
			t.Errorf("token %d: expected type %v, got %v", i, e.typ, tokens[i].Type)
		}
		if tokens[i].Literal != e.lit {
			t.Errorf("token %d: expected literal %q, got %q", i, e.lit, tokens[i].Literal)
		}
	}
}

func TestLexer_Keywords(t *testing.T) {
	input := `chain parallel when chained`
	tokens := Tokenize(input)

	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenKeyword, "chain"},
		{TokenKeyword, "parallel"},
		{TokenKeyword, "when"},
		{TokenIdent, "chained"},
	}
	for i, e := range expected {
		if tokens[i].Type != e.typ {
			t.Errorf("token %d (%q): expected type %v, got %v", i, e.lit, e.typ, tokens[i].Type)
		}
	}
}

func TestLexer_Comments(t *testing.T) {
	input := `# leading comment
// another comment
runner {}`
	tokens := Tokenize(input)

	if tokens[0].Type != TokenIdent || tokens[0].Literal != "runner" {
		t.Errorf("expected ident after comments, got %v %q", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[0].Line != 3 {
		t.Errorf("expected line 3, got %d", tokens[0].Line)
	}
}

func TestLexer_Numbers(t *testing.T) {
	input := `10 -25`
	tokens := Tokenize(input)

	if tokens[0].Type != TokenNumber || tokens[0].Literal != "10" {
		t.Errorf("expected number '10', got %v %q", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[1].Type != TokenNumber || tokens[1].Literal != "-25" {
		t.Errorf("expected number '-25', got %v %q", tokens[1].Type, tokens[1].Literal)
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	input := `"line\none" "quote\"inside"`
	tokens := Tokenize(input)

	if tokens[0].Literal != "line\none" {
		t.Errorf("expected escaped newline, got %q", tokens[0].Literal)
	}
	if tokens[1].Literal != `quote"inside` {
		t.Errorf("expected escaped quote, got %q", tokens[1].Literal)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	input := `runner { "goal": "never closed`
	tokens := Tokenize(input)

	var found bool
	for _, tok := range tokens {
		if tok.Type == TokenError {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected an error token for an unterminated string")
	}
	// Lexing still terminates with EOF.
	if tokens[len(tokens)-1].Type != TokenEOF {
		t.Error("expected token stream to end with EOF")
	}
}

func TestLexer_IllegalByte(t *testing.T) {
	tokens := Tokenize(`runner @ {}`)

	if tokens[1].Type != TokenError {
		t.Errorf("expected error token for '@', got %v", tokens[1].Type)
	}
}

func TestLexer_NonASCIIIdentRejected(t *testing.T) {
	// Multibyte letters must surface as error tokens, not be split
	// byte-by-byte into mojibake identifiers.
	tokens := Tokenize(`émit { "goal": "g" }`)

	if tokens[0].Type != TokenError {
		t.Fatalf("expected error token for non-ASCII name, got %v %q", tokens[0].Type, tokens[0].Literal)
	}

	tokens = Tokenize(`café {}`)
	if tokens[0].Type != TokenIdent || tokens[0].Literal != "caf" {
		t.Errorf("expected ASCII prefix 'caf', got %v %q", tokens[0].Type, tokens[0].Literal)
	}
	if tokens[1].Type != TokenError {
		t.Errorf("expected error token at the multibyte rune, got %v", tokens[1].Type)
	}
}

func TestLexer_Positions(t *testing.T) {
	input := "abc {\n}"
	tokens := Tokenize(input)

	if tokens[0].Pos != 0 {
		t.Errorf("expected pos 0, got %d", tokens[0].Pos)
	}
	if tokens[1].Pos != 4 {
		t.Errorf("expected pos 4, got %d", tokens[1].Pos)
	}
	if tokens[2].Line != 2 {
		t.Errorf("expected '}' on line 2, got %d", tokens[2].Line)
	}
}
