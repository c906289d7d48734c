package port

import (
	"errors"
	"io/fs"
	"time"
)

// IndexFile is the document served at the root path.
const IndexFile = "index.html"

// ErrIsDirectory is returned when an asset name points at a directory.
var ErrIsDirectory = errors.New("asset is a directory")

// Asset is a file read from the static assets directory.
type Asset struct {
	Name    string
	Content []byte
	ModTime time.Time
}

// AssetStore defines read access to the pre-built front-end bundle.
// Every Read hits the underlying storage; implementations must not cache.
type AssetStore interface {
	// Read returns the full contents of name (a slash-separated path relative to the root).
	Read(name string) (*Asset, error)

	// Exists reports whether name is a regular file.
	Exists(name string) bool
}

// IsNotFound reports whether err means the asset is absent or its name is unusable.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid)
}
