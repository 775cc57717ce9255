package literal_test

import (
	"errors"
	"testing"

	"ktfront/internal/literal"
)

func TestInteger(t *testing.T) {
	tests := []struct {
		text string
		want any
		long bool
	}{
		{"10", int32(10), false},
		{"10L", int64(10), true},
		{"1_000", int32(1000), false},
		{"0xFF", int32(255), false},
		{"0b101", int32(5), false},
		{"9999999999L", int64(9999999999), true},
		{"2147483647", int32(2147483647), false},
	}
	for _, tt := range tests {
		got, long, err := literal.Integer(tt.text)
		if err != nil {
			t.Errorf("Integer(%q) error: %v", tt.text, err)
			continue
		}
		if got != tt.want || long != tt.long {
			t.Errorf("Integer(%q) = %#v (long=%v), want %#v (long=%v)", tt.text, got, long, tt.want, tt.long)
		}
	}
}

func TestIntegerMalformed(t *testing.T) {
	for _, text := range []string{"9999999999", "2147483648", "0x", "12abc", "99999999999999999999L"} {
		got, _, err := literal.Integer(text)
		if err == nil {
			t.Errorf("Integer(%q) = %v, want error", text, got)
			continue
		}
		if got != nil {
			t.Errorf("Integer(%q) value = %v, want nil", text, got)
		}
		if !errors.Is(err, literal.ErrMalformed) {
			t.Errorf("Integer(%q) error %v does not wrap ErrMalformed", text, err)
		}
	}
	if _, _, err := literal.Integer("7u"); !errors.Is(err, literal.ErrUnsigned) {
		t.Errorf("unsigned literal error = %v", err)
	}
}

func TestFloat(t *testing.T) {
	got, single, err := literal.Float("3.14f")
	if err != nil || !single || got != float32(3.14) {
		t.Errorf("Float(3.14f) = %#v, %v, %v", got, single, err)
	}
	got, single, err = literal.Float("3.14")
	if err != nil || single || got != 3.14 {
		t.Errorf("Float(3.14) = %#v, %v, %v", got, single, err)
	}
	got, _, err = literal.Float("1e3")
	if err != nil || got != 1000.0 {
		t.Errorf("Float(1e3) = %#v, %v", got, err)
	}
	for _, text := range []string{"1e999", "inf", "0x1p3", "f", "1e40f"} {
		if v, _, err := literal.Float(text); err == nil || v != nil {
			t.Errorf("Float(%q) = %v, %v; want nil and error", text, v, err)
		}
	}
}

func TestCharacter(t *testing.T) {
	tests := []struct {
		text string
		want rune
		ok   bool
	}{
		{`'a'`, 'a', true},
		{`'ж'`, 'ж', true},
		{`'\n'`, '\n', true},
		{`'\t'`, '\t', true},
		{`'\$'`, '$', true},
		{`'\\'`, '\\', true},
		{`'A'`, 'A', true},
		{`''`, 0, false},
		{`'ab'`, 0, false},
		{`'\q'`, 0, false},
		{`'\u00'`, 0, false},
		{`'\u00zz'`, 0, false},
		{`a`, 0, false},
	}
	for _, tt := range tests {
		got, ok := literal.Character(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Character(%s) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBoolean(t *testing.T) {
	if v, err := literal.Boolean("true"); err != nil || !v {
		t.Errorf("Boolean(true) = %v, %v", v, err)
	}
	if _, err := literal.Boolean("yes"); err == nil {
		t.Error("Boolean(yes) should fail")
	}
}
