package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir keeps objects as files in a single directory. PublicURL is the prefix
// under which the API serves that directory, e.g. "http://host:8000/images".
type Dir struct {
	Path      string
	PublicURL string
}

// NewDir creates the directory if needed.
func NewDir(path, publicURL string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	return &Dir{Path: path, PublicURL: publicURL}, nil
}

// Put writes data to <Path>/<key>. The write goes through a temporary file
// so readers never observe a partial image.
func (d *Dir) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	tmp, err := os.CreateTemp(d.Path, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.Path, key)); err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	return joinURL(d.PublicURL, key), nil
}

// Open returns a reader for a stored object. Missing objects report an
// error satisfying errors.Is(err, fs.ErrNotExist).
func (d *Dir) Open(key string) (io.ReadSeekCloser, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	f, err := os.Open(filepath.Join(d.Path, key))
	if err != nil {
		return nil, err
	}
	return f, nil
}
