package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/naresh-2026/warehouseProducts/internal/application/port"
)

// AssetDirectory читает статические файлы из директории на диске.
// Реализует интерфейс port.AssetStore.
type AssetDirectory struct {
	root string
	fsys fs.FS
}

// NewAssetDirectory создает хранилище поверх os.DirFS(root).
func NewAssetDirectory(root string) *AssetDirectory {
	return &AssetDirectory{root: root, fsys: os.DirFS(root)}
}

// NewAssetDirectoryFS uses an arbitrary fs.FS; root is only used for messages.
func NewAssetDirectoryFS(root string, fsys fs.FS) *AssetDirectory {
	return &AssetDirectory{root: root, fsys: fsys}
}

// Root возвращает путь к директории.
func (d *AssetDirectory) Root() string {
	return d.root
}

// Validate проверяет, что директория существует и содержит index.html.
func (d *AssetDirectory) Validate() error {
	info, err := fs.Stat(d.fsys, ".")
	if err != nil {
		return fmt.Errorf("static directory %q: %w", d.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("static directory %q is not a directory", d.root)
	}

	index, err := fs.Stat(d.fsys, port.IndexFile)
	if err != nil {
		return fmt.Errorf("static directory %q: %w", d.root, err)
	}
	if index.IsDir() {
		return fmt.Errorf("static directory %q: %s: %w", d.root, port.IndexFile, port.ErrIsDirectory)
	}

	return nil
}

// Read открывает и полностью читает файл. Кэша нет: каждый вызов идет в файловую систему.
func (d *AssetDirectory) Read(name string) (*port.Asset, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	f, err := d.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat asset %q: %w", name, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read asset %q: %w", name, port.ErrIsDirectory)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read asset %q: %w", name, err)
	}

	return &port.Asset{
		Name:    name,
		Content: content,
		ModTime: info.ModTime(),
	}, nil
}

// Exists reports whether name is a regular file.
func (d *AssetDirectory) Exists(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(d.fsys, name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
