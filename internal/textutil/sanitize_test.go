package textutil

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFolderName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Demo Comic", "Demo Comic"},
		{"invalid characters", "My/Manga:Title*", "My_Manga_Title_"},
		{"every reserved character", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"leading and trailing dots", "  .leading.trailing.  ", "leading.trailing"},
		{"only dots", "...", ""},
		{"empty", "", ""},
		{"inner spaces kept", " a  b ", "a  b"},
		{"decomposed accent", "Cafe\u0301", "Caf\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFolderName(tt.input); got != tt.want {
				t.Errorf("SanitizeFolderName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFolderNameTruncates(t *testing.T) {
	got := SanitizeFolderName(strings.Repeat("x", 150))
	if got != strings.Repeat("x", 100) {
		t.Fatalf("expected 100 x characters, got %d", len(got))
	}
}

func TestSanitizeFolderNameTruncatesByCharacter(t *testing.T) {
	got := SanitizeFolderName(strings.Repeat("漫", 120))
	if n := utf8.RuneCountInString(got); n != MaxFolderNameLength {
		t.Fatalf("expected %d characters, got %d", MaxFolderNameLength, n)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multi-byte character")
	}
}

func TestSanitizeFolderNameTrimsBeforeTruncating(t *testing.T) {
	input := "  " + strings.Repeat("y", 100) + "."
	if got := SanitizeFolderName(input); got != strings.Repeat("y", 100) {
		t.Fatalf("unexpected result %q", got)
	}
}
