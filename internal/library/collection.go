package library

import (
	"fmt"
	"path/filepath"

	"mihonorg/internal/failure"
	"mihonorg/internal/fsys"
	"mihonorg/internal/textutil"
)

const (
	// OrganizedDirName holds copy-mode output under the source root.
	OrganizedDirName = "Organized_Mihon"
	// BackupDirName holds in-place backups under the source root.
	BackupDirName = "_Backup"
)

// Collection is one top-level directory under the source root.
type Collection struct {
	RawTitle string
	Title    string
	Path     string
}

// IsReserved reports whether a top-level name belongs to the tool's own output.
func IsReserved(name string) bool {
	return name == OrganizedDirName || name == BackupDirName
}

// DiscoverCollections lists the immediate subdirectories of root in listing
// order, skipping reserved names. When two directories sanitize to the same
// title the later one gets a numeric suffix so their outputs never merge.
func DiscoverCollections(fs fsys.FS, root string) ([]Collection, error) {
	root = filepath.Clean(root)
	entries, err := fs.ReadDir(root)
	if err != nil {
		return nil, failure.Wrap(failure.ErrFilesystem, "discover", "read source", fmt.Sprintf("list %s", root), err)
	}

	used := map[string]struct{}{}
	var collections []Collection
	for _, entry := range entries {
		if !entry.IsDir() || IsReserved(entry.Name()) {
			continue
		}
		title := uniqueTitle(textutil.SanitizeFolderName(entry.Name()), used)
		used[title] = struct{}{}
		collections = append(collections, Collection{
			RawTitle: entry.Name(),
			Title:    title,
			Path:     filepath.Join(root, entry.Name()),
		})
	}
	return collections, nil
}

func uniqueTitle(title string, used map[string]struct{}) string {
	if title == "" {
		title = "untitled"
	}
	if _, taken := used[title]; !taken {
		return title
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d", title, n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
