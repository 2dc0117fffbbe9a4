package numeric

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Regex pattern components for number formats
const (
	HexDigits = `[0-9a-fA-F]`
	HexNumber = `0[xX]` + HexDigits + `(?:` + HexDigits + `|_` + HexDigits + `)*`

	OctDigits = `[0-7]`
	OctNumber = `0[oO]` + OctDigits + `(?:` + OctDigits + `|_` + OctDigits + `)*`

	BinDigits = `[01]`
	BinNumber = `0[bB]` + BinDigits + `(?:` + BinDigits + `|_` + BinDigits + `)*`

	DecDigits = `[0-9]`
	DecNumber = DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`

	FloatFrac = `\.` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`
	FloatExp  = `[eE][+-]?` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`
)

var (
	decimalRegex = regexp.MustCompile(`^` + DecNumber + `$`)
	hexRegex     = regexp.MustCompile(`^` + HexNumber + `$`)
	octalRegex   = regexp.MustCompile(`^` + OctNumber + `$`)
	binaryRegex  = regexp.MustCompile(`^` + BinNumber + `$`)
	// 1.5, 1.5e3, 1e3; an imaginary suffix i/j is handled by the caller
	floatRegex = regexp.MustCompile(`^` + DecNumber + `(?:` + FloatFrac + `(?:` + FloatExp + `)?|` + FloatExp + `)$`)
)

// IsFloat checks if the string represents any valid float format
// (decimal point or scientific notation)
func IsFloat(s string) bool {
	return floatRegex.MatchString(s)
}

// IsDecimal checks if the string represents a decimal
func IsDecimal(s string) bool {
	return decimalRegex.MatchString(s)
}

// IsHexadecimal checks if the string represents a hexadecimal integer
func IsHexadecimal(s string) bool {
	return hexRegex.MatchString(s)
}

// IsOctal checks if the string represents an octal integer
func IsOctal(s string) bool {
	return octalRegex.MatchString(s)
}

// IsBinary checks if the string represents a binary integer
func IsBinary(s string) bool {
	return binaryRegex.MatchString(s)
}

// IsInteger checks every supported integer spelling.
func IsInteger(s string) bool {
	return IsDecimal(s) || IsHexadecimal(s) || IsOctal(s) || IsBinary(s)
}

// StringToBigInt parses a string into a big.Int, handling hex, octal, binary, and decimal formats
func StringToBigInt(s string) (*big.Int, error) {
	base := 10
	trimmed := s
	switch {
	case IsHexadecimal(s):
		base, trimmed = 16, s[2:]
	case IsOctal(s):
		base, trimmed = 8, s[2:]
	case IsBinary(s):
		base, trimmed = 2, s[2:]
	case !IsDecimal(s):
		return nil, fmt.Errorf("invalid integer literal: %s", s)
	}
	trimmed = strings.ReplaceAll(trimmed, "_", "")

	result, ok := new(big.Int).SetString(trimmed, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal: %s", s)
	}
	return result, nil
}

// StringToFloat parses a decimal float literal, underscores allowed.
func StringToFloat(s string) (float64, error) {
	if !IsFloat(s) && !IsDecimal(s) {
		return 0, fmt.Errorf("invalid float literal: %s", s)
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

// StringToRune decodes a quoted rune literal such as 'a' or '\n'.
func StringToRune(s string) (rune, error) {
	if len(s) < 3 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return 0, fmt.Errorf("invalid rune literal: %s", s)
	}
	r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
	if err != nil {
		return 0, fmt.Errorf("invalid rune literal: %s: %w", s, err)
	}
	if tail != "" {
		return 0, fmt.Errorf("rune literal has more than one character: %s", s)
	}
	return r, nil
}

// Bounds returns the inclusive range of an integer of bitSize bits.
func Bounds(bitSize int, signed bool) (min, max *big.Int) {
	if signed {
		min = new(big.Int).Lsh(big.NewInt(-1), uint(bitSize-1))
		max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bitSize-1)), big.NewInt(1))
		return min, max
	}
	return big.NewInt(0), new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bitSize)), big.NewInt(1))
}

// FitsInBitSize checks if a big.Int value fits in the given bit size (signed or unsigned)
func FitsInBitSize(value *big.Int, bitSize int, signed bool) bool {
	min, max := Bounds(bitSize, signed)
	return value.Cmp(min) >= 0 && value.Cmp(max) <= 0
}

// numeric to ordinal: 1 -> 1st, 2 -> 2nd, 3 -> 3rd, 4 -> 4th, etc.
func NumericToOrdinal(n int) string {
	if n <= 0 {
		return ""
	}

	switch n % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", n)
	}

	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}
