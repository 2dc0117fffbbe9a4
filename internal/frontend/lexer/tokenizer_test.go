package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

func kinds(toks []tokens.Token) []tokens.TOKEN {
	out := make([]tokens.TOKEN, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tokens.TOKEN
	}{
		{
			name: "short variable declaration",
			src:  "x := 1.5 + 2i\n",
			want: []tokens.TOKEN{
				tokens.IDENTIFIER_TOKEN, tokens.WALRUS_TOKEN, tokens.FLOAT_TOKEN, tokens.PLUS_TOKEN,
				tokens.IMAG_TOKEN, tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN,
			},
		},
		{
			name: "no semicolon after an open brace",
			src:  "a :: proc() {\n}\n",
			want: []tokens.TOKEN{
				tokens.IDENTIFIER_TOKEN, tokens.DOUBLE_COLON, tokens.PROC_TOKEN, tokens.OPEN_PAREN,
				tokens.CLOSE_PAREN, tokens.OPEN_CURLY, tokens.CLOSE_CURLY, tokens.SEMICOLON_TOKEN,
				tokens.EOF_TOKEN,
			},
		},
		{
			name: "semicolon at end of input",
			src:  "return",
			want: []tokens.TOKEN{tokens.RETURN_TOKEN, tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN},
		},
		{
			name: "block comment spanning lines",
			src:  "x /* a\nb */ y",
			want: []tokens.TOKEN{
				tokens.IDENTIFIER_TOKEN, tokens.SEMICOLON_TOKEN, tokens.IDENTIFIER_TOKEN,
				tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN,
			},
		},
		{
			name: "line comment",
			src:  "// nothing here\n",
			want: []tokens.TOKEN{tokens.EOF_TOKEN},
		},
		{
			name: "ranges",
			src:  "0..<8 1..=2 1..2",
			want: []tokens.TOKEN{
				tokens.INT_TOKEN, tokens.RANGE_EXCL_TOKEN, tokens.INT_TOKEN,
				tokens.INT_TOKEN, tokens.RANGE_INCL_TOKEN, tokens.INT_TOKEN,
				tokens.INT_TOKEN, tokens.ELLIPSIS_TOKEN, tokens.INT_TOKEN,
				tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN,
			},
		},
		{
			name: "keywords and operators",
			src:  "cast transmute auto_cast in not_in &~ %% << >> -> --- $",
			want: []tokens.TOKEN{
				tokens.CAST_TOKEN, tokens.TRANSMUTE_TOKEN, tokens.AUTO_CAST_TOKEN, tokens.IN_TOKEN,
				tokens.NOT_IN_TOKEN, tokens.AND_NOT_TOKEN, tokens.MOD_MOD_TOKEN, tokens.SHL_TOKEN,
				tokens.SHR_TOKEN, tokens.ARROW_TOKEN, tokens.UNDEF_TOKEN, tokens.DOLLAR_TOKEN,
				tokens.EOF_TOKEN,
			},
		},
		{
			name: "deref and selector",
			src:  "p^.y",
			want: []tokens.TOKEN{
				tokens.IDENTIFIER_TOKEN, tokens.CARET_TOKEN, tokens.DOT_TOKEN, tokens.IDENTIFIER_TOKEN,
				tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN,
			},
		},
		{
			name: "number spellings",
			src:  "0xff 0b1010 0o17 1_000 1e3 2.5j",
			want: []tokens.TOKEN{
				tokens.INT_TOKEN, tokens.INT_TOKEN, tokens.INT_TOKEN, tokens.INT_TOKEN,
				tokens.FLOAT_TOKEN, tokens.IMAG_TOKEN, tokens.SEMICOLON_TOKEN, tokens.EOF_TOKEN,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := diagnostics.NewDiagnosticBag()
			got := kinds(New("test.odin", tt.src, diag).Tokenize())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) kinds mismatch (-want +got):\n%s", tt.src, diff)
			}
			if diag.HasErrors() {
				t.Errorf("unexpected diagnostics: %v", diag.Messages())
			}
		})
	}
}

func TestTokenizeValues(t *testing.T) {
	tests := []struct {
		src  string
		kind tokens.TOKEN
		want string
	}{
		{`"a\tb"`, tokens.STRING_TOKEN, "a\tb"},
		{"`c:\\x`", tokens.STRING_TOKEN, `c:\x`},
		{`'\n'`, tokens.RUNE_TOKEN, `'\n'`},
		{`#no_nil`, tokens.DIRECTIVE_TOKEN, "#no_nil"},
		{`1_000`, tokens.INT_TOKEN, "1_000"},
		{`name_2`, tokens.IDENTIFIER_TOKEN, "name_2"},
	}
	for _, tt := range tests {
		toks := New("test.odin", tt.src, diagnostics.NewDiagnosticBag()).Tokenize()
		if toks[0].Kind != tt.kind || toks[0].Value != tt.want {
			t.Errorf("Tokenize(%s)[0] = %s %q, want %s %q", tt.src, toks[0].Kind, toks[0].Value, tt.kind, tt.want)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	toks := New("pos.odin", "a\n  bc", diagnostics.NewDiagnosticBag()).Tokenize()
	// a ; bc ; EOF
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5", len(toks))
	}
	want := source.NewLocation("pos.odin", source.Position{Line: 2, Column: 3}, source.Position{Line: 2, Column: 5})
	if toks[2].Loc != want {
		t.Errorf("bc at %v..%v, want %v..%v", toks[2].Loc.Start, toks[2].Loc.End, want.Start, want.End)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"x @ y", []string{"P0002: unrecognized character '@'"}},
		{`s := "a\q"`, []string{`P0003: invalid string literal "a\q"`}},
	}
	for _, tt := range tests {
		diag := diagnostics.NewDiagnosticBag()
		New("test.odin", tt.src, diag).Tokenize()
		if diff := cmp.Diff(tt.want, diag.Messages()); diff != "" {
			t.Errorf("Tokenize(%q) diagnostics (-want +got):\n%s", tt.src, diff)
		}
	}
}
