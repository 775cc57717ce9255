package literal

import (
	"strconv"
	"unicode/utf8"
)

// Character parses a character literal token including its quotes, e.g.
// 'a', '\n' or 'A'. It reports false when the body is empty, longer than
// one character, or an unknown escape.
func Character(text string) (rune, bool) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, false
	}
	body := text[1 : len(text)-1]
	if body == "" {
		return 0, false
	}
	if body[0] == '\\' {
		return Escape(body)
	}
	r, size := utf8.DecodeRuneInString(body)
	if r == utf8.RuneError || size != len(body) {
		return 0, false
	}
	return r, true
}

// Escape decodes one escape sequence: a recognized shorthand or a four digit
// unicode escape.
func Escape(seq string) (rune, bool) {
	if len(seq) < 2 || seq[0] != '\\' {
		return 0, false
	}
	if len(seq) == 2 {
		switch seq[1] {
		case 't':
			return '\t', true
		case 'b':
			return '\b', true
		case 'n':
			return '\n', true
		case 'r':
			return '\r', true
		case '\'':
			return '\'', true
		case '"':
			return '"', true
		case '\\':
			return '\\', true
		case '$':
			return '$', true
		}
		return 0, false
	}
	if len(seq) == 6 && seq[1] == 'u' {
		v, err := strconv.ParseUint(seq[2:], 16, 16)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	return 0, false
}
