package common

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short text unchanged", input: "Salmo 23", limit: 30, want: "Salmo 23"},
		{name: "exact length unchanged", input: strings.Repeat("a", 30), limit: 30, want: strings.Repeat("a", 30)},
		{name: "long text gets ellipsis", input: strings.Repeat("a", 31), limit: 30, want: strings.Repeat("a", 30) + "..."},
		{name: "multibyte runes are kept whole", input: "El Señor es mi pastor, nada me faltará", limit: 10, want: "El Señor e..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Expected valid UTF-8, got %q", got)
			}
		})
	}
}

func TestWrapString(t *testing.T) {
	input := "En verdes praderas me hace recostar, me conduce hacia fuentes tranquilas"
	wrapped := WrapString(input, 20)

	for _, line := range strings.Split(wrapped, "\n") {
		if utf8.RuneCountInString(line) > 20 {
			t.Errorf("Expected lines of at most 20 runes, got %q", line)
		}
		if strings.HasPrefix(line, " ") {
			t.Errorf("Expected no leading space, got %q", line)
		}
	}

	if strings.ReplaceAll(wrapped, "\n", " ") != input {
		t.Errorf("Expected wrapping to only replace spaces, got %q", wrapped)
	}
}

func TestWrapString_NoWidth(t *testing.T) {
	if got := WrapString("sin cambios", 0); got != "sin cambios" {
		t.Errorf("Expected input unchanged, got %q", got)
	}
}
