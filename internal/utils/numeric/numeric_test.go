package numeric

import (
	"math/big"
	"testing"
)

func TestStringToBigInt(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"0", "0", false},
		{"1_000_000", "1000000", false},
		{"0xff", "255", false},
		{"0o17", "15", false},
		{"0b1010", "10", false},
		{"340282366920938463463374607431768211456", "340282366920938463463374607431768211456", false},
		{"12a", "", true},
		{"1.5", "", true},
	}
	for _, tt := range tests {
		got, err := StringToBigInt(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("StringToBigInt(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got.String() != tt.want {
			t.Errorf("StringToBigInt(%q) = %v, %v; want %s", tt.in, got, err, tt.want)
		}
	}
}

func TestStringToFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{"2e3", 2000},
		{"1_0.2_5", 10.25},
		{"7", 7},
	}
	for _, tt := range tests {
		got, err := StringToFloat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("StringToFloat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestStringToRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"'a'", 'a'},
		{`'\n'`, '\n'},
		{"'é'", 'é'},
	}
	for _, tt := range tests {
		got, err := StringToRune(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("StringToRune(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := StringToRune("'ab'"); err == nil {
		t.Error("expected error for two-character rune literal")
	}
}

func TestFitsInBitSize(t *testing.T) {
	tests := []struct {
		value  int64
		bits   int
		signed bool
		want   bool
	}{
		{127, 8, true, true},
		{128, 8, true, false},
		{-128, 8, true, true},
		{-129, 8, true, false},
		{255, 8, false, true},
		{256, 8, false, false},
		{-1, 8, false, false},
	}
	for _, tt := range tests {
		if got := FitsInBitSize(big.NewInt(tt.value), tt.bits, tt.signed); got != tt.want {
			t.Errorf("FitsInBitSize(%d, %d, %v) = %v, want %v", tt.value, tt.bits, tt.signed, got, tt.want)
		}
	}
}

func TestNumericToOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 21: "21st", 0: ""}
	for n, want := range tests {
		if got := NumericToOrdinal(n); got != want {
			t.Errorf("NumericToOrdinal(%d) = %q, want %q", n, got, want)
		}
	}
}
