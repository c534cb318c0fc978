package testsupport

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mihonorg/internal/fsys"
)

var _ fsys.FS = (*MemFS)(nil)

// MemFS is an in-memory fsys.FS used by organizer and library tests. It keeps
// a flat map of cleaned absolute paths and counts every mutating call so tests
// can assert that dry runs leave it untouched.
type MemFS struct {
	nodes map[string]*memNode

	// FailMove maps source paths to the error Move should return for them.
	FailMove map[string]error
	// FailCopy maps source paths to the error CopyFile should return for them.
	FailCopy map[string]error
	// FailRemove maps directory paths to the error RemoveDir should return.
	FailRemove map[string]error

	Mutations int
}

type memNode struct {
	dir     bool
	data    []byte
	modTime time.Time
}

// NewMemFS returns an empty filesystem containing only the root directory.
func NewMemFS() *MemFS {
	return &MemFS{
		nodes:      map[string]*memNode{string(filepath.Separator): {dir: true}},
		FailMove:   map[string]error{},
		FailCopy:   map[string]error{},
		FailRemove: map[string]error{},
	}
}

// AddFile creates a file and any missing parent directories without counting
// as a mutation.
func (m *MemFS) AddFile(path, content string) {
	path = filepath.Clean(path)
	m.addParents(path)
	m.nodes[path] = &memNode{data: []byte(content), modTime: time.Unix(1_600_000_000, 0)}
}

// AddDir creates a directory and its parents without counting as a mutation.
func (m *MemFS) AddDir(path string) {
	path = filepath.Clean(path)
	m.addParents(path)
	m.nodes[path] = &memNode{dir: true}
}

// Files returns every file path under root relative to root, slash separated
// and sorted.
func (m *MemFS) Files(root string) []string {
	root = filepath.Clean(root)
	var out []string
	for path, node := range m.nodes {
		if node.dir || !isWithin(root, path) {
			continue
		}
		rel, _ := filepath.Rel(root, path)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

// Content returns the bytes stored for path.
func (m *MemFS) Content(path string) (string, bool) {
	node, ok := m.nodes[filepath.Clean(path)]
	if !ok || node.dir {
		return "", false
	}
	return string(node.data), true
}

// Snapshot renders the whole tree as sorted "d:path" and "f:path=content" lines.
func (m *MemFS) Snapshot() string {
	lines := make([]string, 0, len(m.nodes))
	for path, node := range m.nodes {
		if node.dir {
			lines = append(lines, "d:"+path)
			continue
		}
		lines = append(lines, "f:"+path+"="+string(node.data))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = filepath.Clean(name)
	node, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	if !node.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fmt.Errorf("not a directory")}
	}
	var entries []fs.DirEntry
	for path, child := range m.nodes {
		if path != name && filepath.Dir(path) == name {
			entries = append(entries, memEntry{info: memInfo{name: filepath.Base(path), node: child}})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	name = filepath.Clean(name)
	node, ok := m.nodes[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return memInfo{name: filepath.Base(name), node: node}, nil
}

func (m *MemFS) MkdirAll(name string) error {
	name = filepath.Clean(name)
	m.Mutations++
	for p := name; ; p = filepath.Dir(p) {
		if node, ok := m.nodes[p]; ok {
			if !node.dir {
				return &fs.PathError{Op: "mkdir", Path: p, Err: fmt.Errorf("not a directory")}
			}
			break
		}
		if filepath.Dir(p) == p {
			break
		}
	}
	m.addParents(name)
	if _, ok := m.nodes[name]; !ok {
		m.nodes[name] = &memNode{dir: true}
	}
	return nil
}

func (m *MemFS) Move(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	m.Mutations++
	if err := m.FailMove[src]; err != nil {
		return err
	}
	node, err := m.checkTransfer("move", src, dst)
	if err != nil {
		return err
	}
	delete(m.nodes, src)
	m.nodes[dst] = node
	return nil
}

func (m *MemFS) CopyFile(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	m.Mutations++
	if err := m.FailCopy[src]; err != nil {
		return err
	}
	node, err := m.checkTransfer("copy", src, dst)
	if err != nil {
		return err
	}
	data := append([]byte(nil), node.data...)
	m.nodes[dst] = &memNode{data: data, modTime: node.modTime}
	return nil
}

func (m *MemFS) CopyTree(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	m.Mutations++
	if node, ok := m.nodes[src]; !ok || !node.dir {
		return &fs.PathError{Op: "copytree", Path: src, Err: fs.ErrNotExist}
	}
	if _, ok := m.nodes[dst]; ok {
		return &fs.PathError{Op: "copytree", Path: dst, Err: fs.ErrExist}
	}
	m.addParents(dst)
	copies := map[string]*memNode{}
	for path, node := range m.nodes {
		if !isWithin(src, path) && path != src {
			continue
		}
		rel, _ := filepath.Rel(src, path)
		clone := *node
		clone.data = append([]byte(nil), node.data...)
		copies[filepath.Join(dst, rel)] = &clone
	}
	for path, node := range copies {
		m.nodes[path] = node
	}
	return nil
}

func (m *MemFS) RenameDir(src, dst string) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	m.Mutations++
	if node, ok := m.nodes[src]; !ok || !node.dir {
		return &fs.PathError{Op: "rename", Path: src, Err: fs.ErrNotExist}
	}
	if _, ok := m.nodes[dst]; ok {
		return &fs.PathError{Op: "rename", Path: dst, Err: fs.ErrExist}
	}
	if parent, ok := m.nodes[filepath.Dir(dst)]; !ok || !parent.dir {
		return &fs.PathError{Op: "rename", Path: dst, Err: fs.ErrNotExist}
	}
	moved := map[string]*memNode{}
	for path, node := range m.nodes {
		if path != src && !isWithin(src, path) {
			continue
		}
		rel, _ := filepath.Rel(src, path)
		moved[filepath.Join(dst, rel)] = node
		delete(m.nodes, path)
	}
	for path, node := range moved {
		m.nodes[path] = node
	}
	return nil
}

func (m *MemFS) RemoveTree(name string) error {
	name = filepath.Clean(name)
	m.Mutations++
	for path := range m.nodes {
		if path == name || isWithin(name, path) {
			delete(m.nodes, path)
		}
	}
	return nil
}

func (m *MemFS) RemoveDir(name string) error {
	name = filepath.Clean(name)
	m.Mutations++
	if err := m.FailRemove[name]; err != nil {
		return err
	}
	node, ok := m.nodes[name]
	if !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if !node.dir {
		return &fs.PathError{Op: "remove", Path: name, Err: fmt.Errorf("not a directory")}
	}
	for path := range m.nodes {
		if path != name && filepath.Dir(path) == name {
			return &fs.PathError{Op: "remove", Path: name, Err: fmt.Errorf("directory not empty")}
		}
	}
	delete(m.nodes, name)
	return nil
}

func (m *MemFS) checkTransfer(op, src, dst string) (*memNode, error) {
	node, ok := m.nodes[src]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: src, Err: fs.ErrNotExist}
	}
	if node.dir {
		return nil, &fs.PathError{Op: op, Path: src, Err: fmt.Errorf("is a directory")}
	}
	if _, exists := m.nodes[dst]; exists {
		return nil, &fs.PathError{Op: op, Path: dst, Err: fs.ErrExist}
	}
	if parent, ok := m.nodes[filepath.Dir(dst)]; !ok || !parent.dir {
		return nil, &fs.PathError{Op: op, Path: dst, Err: fs.ErrNotExist}
	}
	return node, nil
}

func (m *MemFS) addParents(path string) {
	for p := filepath.Dir(path); ; p = filepath.Dir(p) {
		if _, ok := m.nodes[p]; !ok {
			m.nodes[p] = &memNode{dir: true}
		}
		if filepath.Dir(p) == p {
			return
		}
	}
}

func isWithin(root, path string) bool {
	if root == string(filepath.Separator) {
		return path != root
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

type memInfo struct {
	name string
	node *memNode
}

func (i memInfo) Name() string { return i.name }
func (i memInfo) Size() int64  { return int64(len(i.node.data)) }
func (i memInfo) Mode() fs.FileMode {
	if i.node.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i memInfo) ModTime() time.Time { return i.node.modTime }
func (i memInfo) IsDir() bool        { return i.node.dir }
func (i memInfo) Sys() any           { return nil }

type memEntry struct {
	info memInfo
}

func (e memEntry) Name() string               { return e.info.name }
func (e memEntry) IsDir() bool                { return e.info.IsDir() }
func (e memEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e memEntry) Info() (fs.FileInfo, error) { return e.info, nil }
