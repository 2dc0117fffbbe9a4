package colors

import (
	"bytes"
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{RED.Sprint("error"), "error"},
		{BOLD_CYAN.Sprintf("%d:%d", 3, 4) + " tail", "3:4 tail"},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFprintRespectsMode(t *testing.T) {
	defer SetMode(Auto)

	var buf bytes.Buffer
	SetMode(Never)
	RED.Fprint(&buf, "x")
	if buf.String() != "x" {
		t.Errorf("Never mode wrote %q", buf.String())
	}

	buf.Reset()
	SetMode(Always)
	RED.Fprint(&buf, "x")
	if buf.String() != string(RED)+"x"+string(RESET) {
		t.Errorf("Always mode wrote %q", buf.String())
	}

	buf.Reset()
	SetMode(Auto)
	RED.Fprint(&buf, "x")
	if buf.String() != "x" {
		t.Errorf("Auto mode on a buffer wrote %q", buf.String())
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("always") != Always || ParseMode("never") != Never || ParseMode("") != Auto {
		t.Error("ParseMode mismatch")
	}
}

func TestWidth(t *testing.T) {
	if got := Width(GREEN.Sprint("abc")); got != 3 {
		t.Errorf("Width = %d, want 3", got)
	}
}
