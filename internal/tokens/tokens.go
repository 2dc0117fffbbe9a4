package tokens

import (
	"github.com/dimenus/Odin/internal/source"
)

type TOKEN string

const (
	INVALID_TOKEN TOKEN = ""
	EOF_TOKEN     TOKEN = "end of file"

	//literals
	IDENTIFIER_TOKEN TOKEN = "identifier"
	INT_TOKEN        TOKEN = "integer"
	FLOAT_TOKEN      TOKEN = "float"
	IMAG_TOKEN       TOKEN = "imaginary"
	RUNE_TOKEN       TOKEN = "rune"
	STRING_TOKEN     TOKEN = "string"
	DIRECTIVE_TOKEN  TOKEN = "directive" // #no_nil, #c_vararg, #any_int

	//punctuation
	OPEN_PAREN      TOKEN = "("
	CLOSE_PAREN     TOKEN = ")"
	OPEN_BRACKET    TOKEN = "["
	CLOSE_BRACKET   TOKEN = "]"
	OPEN_CURLY      TOKEN = "{"
	CLOSE_CURLY     TOKEN = "}"
	COMMA_TOKEN     TOKEN = ","
	SEMICOLON_TOKEN TOKEN = ";"
	COLON_TOKEN     TOKEN = ":"
	DOUBLE_COLON    TOKEN = "::"
	WALRUS_TOKEN    TOKEN = ":="
	EQUALS_TOKEN    TOKEN = "="
	DOT_TOKEN       TOKEN = "."
	ARROW_TOKEN     TOKEN = "->"
	DOLLAR_TOKEN    TOKEN = "$"
	UNDEF_TOKEN     TOKEN = "---"

	//keywords
	PACKAGE_TOKEN  TOKEN = "package"
	IMPORT_TOKEN   TOKEN = "import"
	PROC_TOKEN     TOKEN = "proc"
	STRUCT_TOKEN   TOKEN = "struct"
	UNION_TOKEN    TOKEN = "union"
	ENUM_TOKEN     TOKEN = "enum"
	BIT_SET_TOKEN  TOKEN = "bit_set"
	MAP_TOKEN      TOKEN = "map"
	DYNAMIC_TOKEN  TOKEN = "dynamic"
	DISTINCT_TOKEN TOKEN = "distinct"
	OPAQUE_TOKEN   TOKEN = "opaque"
	USING_TOKEN    TOKEN = "using"
	RETURN_TOKEN   TOKEN = "return"
	ELSE_TOKEN     TOKEN = "else"

	//arithmetic operators
	PLUS_TOKEN    TOKEN = "+"
	MINUS_TOKEN   TOKEN = "-"
	MUL_TOKEN     TOKEN = "*"
	DIV_TOKEN     TOKEN = "/"
	MOD_TOKEN     TOKEN = "%"
	MOD_MOD_TOKEN TOKEN = "%%"
	//bitwise operators
	BIT_AND_TOKEN TOKEN = "&"
	BIT_OR_TOKEN  TOKEN = "|"
	TILDE_TOKEN   TOKEN = "~" // xor when binary, complement when unary
	AND_NOT_TOKEN TOKEN = "&~"
	SHL_TOKEN     TOKEN = "<<"
	SHR_TOKEN     TOKEN = ">>"
	//logical operators
	AND_TOKEN TOKEN = "&&"
	OR_TOKEN  TOKEN = "||"
	NOT_TOKEN TOKEN = "!"
	//comparison operators
	DOUBLE_EQUAL_TOKEN  TOKEN = "=="
	NOT_EQUAL_TOKEN     TOKEN = "!="
	LESS_TOKEN          TOKEN = "<"
	LESS_EQUAL_TOKEN    TOKEN = "<="
	GREATER_TOKEN       TOKEN = ">"
	GREATER_EQUAL_TOKEN TOKEN = ">="
	IN_TOKEN            TOKEN = "in"
	NOT_IN_TOKEN        TOKEN = "not_in"
	//pointers
	CARET_TOKEN TOKEN = "^"
	//conversions
	CAST_TOKEN      TOKEN = "cast"
	TRANSMUTE_TOKEN TOKEN = "transmute"
	AUTO_CAST_TOKEN TOKEN = "auto_cast"
	//ranges
	ELLIPSIS_TOKEN   TOKEN = ".."
	RANGE_INCL_TOKEN TOKEN = "..="
	RANGE_EXCL_TOKEN TOKEN = "..<"
	//ternaries
	QUESTION_TOKEN TOKEN = "?"
	IF_TOKEN       TOKEN = "if"
	WHEN_TOKEN     TOKEN = "when"
)

var keywords = map[string]TOKEN{
	"package":   PACKAGE_TOKEN,
	"import":    IMPORT_TOKEN,
	"proc":      PROC_TOKEN,
	"struct":    STRUCT_TOKEN,
	"union":     UNION_TOKEN,
	"enum":      ENUM_TOKEN,
	"bit_set":   BIT_SET_TOKEN,
	"map":       MAP_TOKEN,
	"dynamic":   DYNAMIC_TOKEN,
	"distinct":  DISTINCT_TOKEN,
	"opaque":    OPAQUE_TOKEN,
	"using":     USING_TOKEN,
	"return":    RETURN_TOKEN,
	"else":      ELSE_TOKEN,
	"if":        IF_TOKEN,
	"when":      WHEN_TOKEN,
	"in":        IN_TOKEN,
	"not_in":    NOT_IN_TOKEN,
	"cast":      CAST_TOKEN,
	"transmute": TRANSMUTE_TOKEN,
	"auto_cast": AUTO_CAST_TOKEN,
}

// Keyword returns the token kind of a reserved word.
func Keyword(s string) (TOKEN, bool) {
	k, ok := keywords[s]
	return k, ok
}

var binaryOperators = map[TOKEN]bool{
	PLUS_TOKEN: true, MINUS_TOKEN: true, MUL_TOKEN: true, DIV_TOKEN: true,
	MOD_TOKEN: true, MOD_MOD_TOKEN: true, BIT_AND_TOKEN: true, BIT_OR_TOKEN: true,
	TILDE_TOKEN: true, AND_NOT_TOKEN: true, SHL_TOKEN: true, SHR_TOKEN: true,
	AND_TOKEN: true, OR_TOKEN: true, DOUBLE_EQUAL_TOKEN: true, NOT_EQUAL_TOKEN: true,
	LESS_TOKEN: true, LESS_EQUAL_TOKEN: true, GREATER_TOKEN: true, GREATER_EQUAL_TOKEN: true,
	IN_TOKEN: true, NOT_IN_TOKEN: true,
}

var unaryOperators = map[TOKEN]bool{
	PLUS_TOKEN: true, MINUS_TOKEN: true, TILDE_TOKEN: true, NOT_TOKEN: true, BIT_AND_TOKEN: true,
}

// IsBinaryOperator reports whether k may appear between two operands.
func IsBinaryOperator(k TOKEN) bool {
	return binaryOperators[k]
}

// IsUnaryOperator reports whether k may prefix an operand.
func IsUnaryOperator(k TOKEN) bool {
	return unaryOperators[k]
}

func IsComparison(k TOKEN) bool {
	switch k {
	case DOUBLE_EQUAL_TOKEN, NOT_EQUAL_TOKEN, LESS_TOKEN, LESS_EQUAL_TOKEN, GREATER_TOKEN, GREATER_EQUAL_TOKEN:
		return true
	}
	return false
}

func IsRange(k TOKEN) bool {
	return k == RANGE_INCL_TOKEN || k == RANGE_EXCL_TOKEN || k == ELLIPSIS_TOKEN
}

func IsShift(k TOKEN) bool {
	return k == SHL_TOKEN || k == SHR_TOKEN
}

// IsOrderedComparison is true for < <= > >=.
func IsOrderedComparison(k TOKEN) bool {
	return IsComparison(k) && k != DOUBLE_EQUAL_TOKEN && k != NOT_EQUAL_TOKEN
}

// Token is one lexeme. Value holds the source text of identifiers and
// literals; string literals are already unquoted.
type Token struct {
	Kind  TOKEN
	Value string
	Loc   source.Location
}

func NewToken(kind TOKEN, value string, loc source.Location) Token {
	return Token{Kind: kind, Value: value, Loc: loc}
}

func (t Token) String() string {
	if t.Value != "" {
		return t.Value
	}
	return string(t.Kind)
}
