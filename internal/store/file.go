package store

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File stores each artifact as a text file at its path.
type File struct{}

// NewFile returns the file backend.
func NewFile() *File {
	return &File{}
}

// Load reads the artifact at path. A missing file is an empty mapping.
// dirty is true when the file is not byte-identical to Encode of its own
// contents (hand edits, CRLF line endings, an outdated header).
func (f *File) Load(ctx context.Context, path string) (Data, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, ioError("load", path, err)
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(Data), false, nil
	}
	if err != nil {
		return nil, false, ioError("load", path, err)
	}

	data, err := Decode(content)
	if err != nil {
		return nil, false, &Error{Op: "load", Path: path, Kind: KindMalformed, Err: err}
	}

	dirty := !bytes.Equal(content, Encode(data))
	return data, dirty, nil
}

// Save writes data to path atomically: the encoded artifact goes to a
// sibling temp file which is then renamed over path. Missing parent
// directories are created.
func (f *File) Save(ctx context.Context, data Data, path string) error {
	if err := ctx.Err(); err != nil {
		return ioError("save", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ioError("save", path, err)
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, Encode(data), 0o644); err != nil {
		return ioError("save", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return ioError("save", path, err)
	}
	return nil
}

// Exists reports whether an artifact is present at path.
func (f *File) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, ioError("exists", path, err)
	}

	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ioError("exists", path, err)
	}
	return true, nil
}

// Remove deletes the artifact at path. Removing an absent artifact is a no-op.
func (f *File) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return ioError("remove", path, err)
	}

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ioError("remove", path, err)
	}
	return nil
}
