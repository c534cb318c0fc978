package library

import (
	"path/filepath"
	"sort"
	"strings"
)

// DefaultImageExtensions lists the extensions recognized when none are configured.
var DefaultImageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "tiff", "tif"}

var defaultExtensionSet = extensionSet(DefaultImageExtensions)

// Classifier decides whether a path is an image by its extension alone. The
// zero value recognizes DefaultImageExtensions.
type Classifier struct {
	exts map[string]struct{}
}

// NewClassifier builds a classifier for the given extensions. Entries are
// lower-cased and may carry a leading dot. An empty list selects the defaults.
func NewClassifier(exts []string) Classifier {
	set := extensionSet(exts)
	if len(set) == 0 {
		return Classifier{}
	}
	return Classifier{exts: set}
}

// IsImage reports whether path carries a recognized extension, ignoring case.
// A name that is only an extension, such as ".jpg", has no stem and is not an
// image.
func (c Classifier) IsImage(path string) bool {
	base := filepath.Base(path)
	dotExt := filepath.Ext(base)
	if dotExt == "" || len(dotExt) == len(base) {
		return false
	}
	ext := strings.TrimPrefix(dotExt, ".")
	_, ok := c.set()[strings.ToLower(ext)]
	return ok
}

// Extensions returns the recognized extensions in sorted order.
func (c Classifier) Extensions() []string {
	set := c.set()
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (c Classifier) set() map[string]struct{} {
	if c.exts == nil {
		return defaultExtensionSet
	}
	return c.exts
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}
