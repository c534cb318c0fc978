package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxFolderNameLength caps sanitized names, counted in characters.
const MaxFolderNameLength = 100

// folderNameReplacer maps characters rejected by Windows filesystems to underscores.
var folderNameReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SanitizeFolderName turns an arbitrary title into a path segment. The input is
// normalized to NFC, each unsafe character is replaced by an underscore, leading
// and trailing spaces and dots are stripped, and the result is cut to
// MaxFolderNameLength characters.
func SanitizeFolderName(name string) string {
	name = norm.NFC.String(name)
	name = folderNameReplacer.Replace(name)
	name = strings.Trim(name, " .")

	runes := []rune(name)
	if len(runes) > MaxFolderNameLength {
		name = string(runes[:MaxFolderNameLength])
	}
	return name
}
