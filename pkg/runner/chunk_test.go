package runner

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"small text", "hello", 10, []string{"hello"}},
		{"no size", "hello", 0, []string{"hello"}},
		{"line break", "aaaaaaaa\nbbbb", 10, []string{"aaaaaaaa\n", "bbbb"}},
		{"word break", "aaaaaaaa bbbb", 10, []string{"aaaaaaaa ", "bbbb"}},
		{"no break point", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, tt.size)
			if strings.Join(got, "") != tt.text {
				t.Fatalf("chunks do not rebuild the text: %q", got)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunk_KeepsRunes(t *testing.T) {
	text := strings.Repeat("日本語", 20)
	for _, c := range Chunk(text, 10) {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %q splits a rune", c)
		}
		if len(c) > 10 {
			t.Fatalf("chunk %q exceeds size", c)
		}
	}
}
