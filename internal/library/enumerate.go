package library

import (
	"fmt"
	"path/filepath"
	"sort"

	"mihonorg/internal/failure"
	"mihonorg/internal/fsys"
)

// Image is one recognized image file.
type Image struct {
	Path string
	Name string
}

// Enumerate walks dir recursively and returns every regular file the
// classifier accepts, sorted with SortImages. Symbolic links are neither
// followed nor returned.
func Enumerate(fs fsys.FS, dir string, classifier Classifier) ([]Image, error) {
	var images []Image
	pending := []string{filepath.Clean(dir)}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := fs.ReadDir(current)
		if err != nil {
			return nil, failure.Wrap(failure.ErrFilesystem, "enumerate", "read directory", fmt.Sprintf("list %s", current), err)
		}
		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			switch {
			case entry.IsDir():
				pending = append(pending, path)
			case entry.Type().IsRegular() && classifier.IsImage(entry.Name()):
				images = append(images, Image{Path: path, Name: entry.Name()})
			}
		}
	}
	SortImages(images)
	return images, nil
}

// SortImages orders images by file name, byte-wise and case sensitive, with
// ties broken by full path.
func SortImages(images []Image) {
	sort.Slice(images, func(i, j int) bool {
		if images[i].Name != images[j].Name {
			return images[i].Name < images[j].Name
		}
		return images[i].Path < images[j].Path
	})
}
