package lexer

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/utils/numeric"
)

type regexHandler func(lex *Lexer, match string)

type regexPattern struct {
	regex   *regexp.Regexp
	handler regexHandler
}

// numberPattern matches every integer spelling, decimal floats and an
// optional imaginary suffix.
const numberPattern = `(?:` + numeric.HexNumber + `|` + numeric.OctNumber + `|` + numeric.BinNumber +
	`|` + numeric.DecNumber + `(?:` + numeric.FloatFrac + `)?(?:` + numeric.FloatExp + `)?)[ij]?`

var patterns = []regexPattern{
	{regexp.MustCompile(`^[ \t\r]+`), skipHandler},
	{regexp.MustCompile(`^\n`), newlineHandler},
	{regexp.MustCompile(`^//[^\n]*`), skipHandler},
	{regexp.MustCompile(`^/\*[\s\S]*?\*/`), blockCommentHandler},
	{regexp.MustCompile(`^"(?:[^"\\\n]|\\.)*"`), stringHandler},
	{regexp.MustCompile("^`[^`]*`"), rawStringHandler},
	{regexp.MustCompile(`^'(?:[^'\\\n]|\\.)+'`), literalHandler(tokens.RUNE_TOKEN)},
	{regexp.MustCompile(`^` + numberPattern), numberHandler},
	{regexp.MustCompile(`^#[a-zA-Z_][a-zA-Z0-9_]*`), literalHandler(tokens.DIRECTIVE_TOKEN)},
	{regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`), identifierHandler},
	{regexp.MustCompile(`^---`), defaultHandler(tokens.UNDEF_TOKEN)},
	{regexp.MustCompile(`^->`), defaultHandler(tokens.ARROW_TOKEN)},
	{regexp.MustCompile(`^\.\.=`), defaultHandler(tokens.RANGE_INCL_TOKEN)},
	{regexp.MustCompile(`^\.\.<`), defaultHandler(tokens.RANGE_EXCL_TOKEN)},
	{regexp.MustCompile(`^\.\.`), defaultHandler(tokens.ELLIPSIS_TOKEN)},
	{regexp.MustCompile(`^::`), defaultHandler(tokens.DOUBLE_COLON)},
	{regexp.MustCompile(`^:=`), defaultHandler(tokens.WALRUS_TOKEN)},
	{regexp.MustCompile(`^==`), defaultHandler(tokens.DOUBLE_EQUAL_TOKEN)},
	{regexp.MustCompile(`^!=`), defaultHandler(tokens.NOT_EQUAL_TOKEN)},
	{regexp.MustCompile(`^<=`), defaultHandler(tokens.LESS_EQUAL_TOKEN)},
	{regexp.MustCompile(`^>=`), defaultHandler(tokens.GREATER_EQUAL_TOKEN)},
	{regexp.MustCompile(`^<<`), defaultHandler(tokens.SHL_TOKEN)},
	{regexp.MustCompile(`^>>`), defaultHandler(tokens.SHR_TOKEN)},
	{regexp.MustCompile(`^&&`), defaultHandler(tokens.AND_TOKEN)},
	{regexp.MustCompile(`^&~`), defaultHandler(tokens.AND_NOT_TOKEN)},
	{regexp.MustCompile(`^\|\|`), defaultHandler(tokens.OR_TOKEN)},
	{regexp.MustCompile(`^%%`), defaultHandler(tokens.MOD_MOD_TOKEN)},
	{regexp.MustCompile(`^<`), defaultHandler(tokens.LESS_TOKEN)},
	{regexp.MustCompile(`^>`), defaultHandler(tokens.GREATER_TOKEN)},
	{regexp.MustCompile(`^&`), defaultHandler(tokens.BIT_AND_TOKEN)},
	{regexp.MustCompile(`^\|`), defaultHandler(tokens.BIT_OR_TOKEN)},
	{regexp.MustCompile(`^%`), defaultHandler(tokens.MOD_TOKEN)},
	{regexp.MustCompile(`^\+`), defaultHandler(tokens.PLUS_TOKEN)},
	{regexp.MustCompile(`^-`), defaultHandler(tokens.MINUS_TOKEN)},
	{regexp.MustCompile(`^\*`), defaultHandler(tokens.MUL_TOKEN)},
	{regexp.MustCompile(`^/`), defaultHandler(tokens.DIV_TOKEN)},
	{regexp.MustCompile(`^~`), defaultHandler(tokens.TILDE_TOKEN)},
	{regexp.MustCompile(`^!`), defaultHandler(tokens.NOT_TOKEN)},
	{regexp.MustCompile(`^\^`), defaultHandler(tokens.CARET_TOKEN)},
	{regexp.MustCompile(`^=`), defaultHandler(tokens.EQUALS_TOKEN)},
	{regexp.MustCompile(`^:`), defaultHandler(tokens.COLON_TOKEN)},
	{regexp.MustCompile(`^;`), defaultHandler(tokens.SEMICOLON_TOKEN)},
	{regexp.MustCompile(`^\(`), defaultHandler(tokens.OPEN_PAREN)},
	{regexp.MustCompile(`^\)`), defaultHandler(tokens.CLOSE_PAREN)},
	{regexp.MustCompile(`^\[`), defaultHandler(tokens.OPEN_BRACKET)},
	{regexp.MustCompile(`^\]`), defaultHandler(tokens.CLOSE_BRACKET)},
	{regexp.MustCompile(`^\{`), defaultHandler(tokens.OPEN_CURLY)},
	{regexp.MustCompile(`^\}`), defaultHandler(tokens.CLOSE_CURLY)},
	{regexp.MustCompile(`^,`), defaultHandler(tokens.COMMA_TOKEN)},
	{regexp.MustCompile(`^\.`), defaultHandler(tokens.DOT_TOKEN)},
	{regexp.MustCompile(`^\?`), defaultHandler(tokens.QUESTION_TOKEN)},
	{regexp.MustCompile(`^\$`), defaultHandler(tokens.DOLLAR_TOKEN)},
}

// Lexer turns source text into tokens. A newline ends a statement when the
// previous token can end one, so most semicolons are implicit.
type Lexer struct {
	diagnostics *diagnostics.DiagnosticBag
	Tokens      []tokens.Token
	Position    source.Position
	offset      int
	sourceCode  string
	FilePath    string
}

func New(filepath, content string, diag *diagnostics.DiagnosticBag) *Lexer {
	return &Lexer{
		diagnostics: diag,
		Tokens:      make([]tokens.Token, 0, len(content)/4),
		Position:    source.Position{Line: 1, Column: 1},
		sourceCode:  content,
		FilePath:    filepath,
	}
}

func (lex *Lexer) advance(match string) {
	for _, r := range match {
		if r == '\n' {
			lex.Position.Line++
			lex.Position.Column = 1
		} else {
			lex.Position.Column++
		}
	}
	lex.offset += len(match)
}

func (lex *Lexer) push(token tokens.Token) {
	lex.Tokens = append(lex.Tokens, token)
}

func (lex *Lexer) remainder() string {
	return lex.sourceCode[lex.offset:]
}

func (lex *Lexer) atEOF() bool {
	return lex.offset >= len(lex.sourceCode)
}

// emit pushes a token spanning match and moves past it.
func (lex *Lexer) emit(kind tokens.TOKEN, value, match string) {
	start := lex.Position
	lex.advance(match)
	lex.push(tokens.NewToken(kind, value, source.NewLocation(lex.FilePath, start, lex.Position)))
}

func (lex *Lexer) errorAt(start source.Position, code, msg string) {
	lex.diagnostics.Add(
		diagnostics.NewError(msg).
			WithCode(code).
			WithPrimaryLabel(source.NewLocation(lex.FilePath, start, lex.Position), ""),
	)
}

// endsStatement reports whether a newline after the last token inserts a
// semicolon.
func (lex *Lexer) endsStatement() bool {
	if len(lex.Tokens) == 0 {
		return false
	}
	switch lex.Tokens[len(lex.Tokens)-1].Kind {
	case tokens.IDENTIFIER_TOKEN, tokens.INT_TOKEN, tokens.FLOAT_TOKEN, tokens.IMAG_TOKEN,
		tokens.RUNE_TOKEN, tokens.STRING_TOKEN, tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET,
		tokens.CLOSE_CURLY, tokens.CARET_TOKEN, tokens.UNDEF_TOKEN, tokens.QUESTION_TOKEN,
		tokens.RETURN_TOKEN:
		return true
	}
	return false
}

func (lex *Lexer) autoSemicolon() {
	if lex.endsStatement() {
		lex.push(tokens.NewToken(tokens.SEMICOLON_TOKEN, "newline", source.NewLocation(lex.FilePath, lex.Position, lex.Position)))
	}
}

func defaultHandler(token tokens.TOKEN) regexHandler {
	return func(lex *Lexer, match string) {
		lex.emit(token, "", match)
	}
}

func literalHandler(token tokens.TOKEN) regexHandler {
	return func(lex *Lexer, match string) {
		lex.emit(token, match, match)
	}
}

func identifierHandler(lex *Lexer, match string) {
	if kw, ok := tokens.Keyword(match); ok {
		lex.emit(kw, "", match)
		return
	}
	lex.emit(tokens.IDENTIFIER_TOKEN, match, match)
}

func numberHandler(lex *Lexer, match string) {
	kind := tokens.INT_TOKEN
	body := match
	if last := match[len(match)-1]; last == 'i' || last == 'j' {
		kind = tokens.IMAG_TOKEN
		body = match[:len(match)-1]
	}
	if kind == tokens.INT_TOKEN && !numeric.IsInteger(body) {
		kind = tokens.FLOAT_TOKEN
	}
	lex.emit(kind, match, match)
}

func stringHandler(lex *Lexer, match string) {
	start := lex.Position
	value, err := strconv.Unquote(match)
	if err != nil {
		lex.advance(match)
		lex.errorAt(start, diagnostics.ErrInvalidLiteral, fmt.Sprintf("invalid string literal %s", match))
		lex.push(tokens.NewToken(tokens.STRING_TOKEN, "", source.NewLocation(lex.FilePath, start, lex.Position)))
		return
	}
	lex.emit(tokens.STRING_TOKEN, value, match)
}

func rawStringHandler(lex *Lexer, match string) {
	lex.emit(tokens.STRING_TOKEN, match[1:len(match)-1], match)
}

func newlineHandler(lex *Lexer, match string) {
	lex.autoSemicolon()
	lex.advance(match)
}

// A block comment spanning lines acts like a newline.
func blockCommentHandler(lex *Lexer, match string) {
	start := lex.Position.Line
	lex.advance(match)
	if lex.Position.Line > start {
		lex.autoSemicolon()
	}
}

func skipHandler(lex *Lexer, match string) {
	lex.advance(match)
}

// Tokenize splits the whole source. The result always ends with EOF_TOKEN.
func (lex *Lexer) Tokenize() []tokens.Token {
	for !lex.atEOF() {
		rest := lex.remainder()
		matched := false
		for _, pattern := range patterns {
			if m := pattern.regex.FindString(rest); m != "" {
				pattern.handler(lex, m)
				matched = true
				break
			}
		}
		if !matched {
			start := lex.Position
			r, size := utf8.DecodeRuneInString(rest)
			lex.advance(rest[:size])
			lex.errorAt(start, diagnostics.ErrUnrecognizedCharacter, fmt.Sprintf("unrecognized character '%c'", r))
		}
	}
	lex.autoSemicolon()
	lex.push(tokens.NewToken(tokens.EOF_TOKEN, "", source.NewLocation(lex.FilePath, lex.Position, lex.Position)))

	return lex.Tokens
}
