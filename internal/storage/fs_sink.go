package storage

import (
	"context"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// FSSink writes documents below a local directory. Each write goes to a
// temporary file in the target directory and is renamed into place, so
// readers never observe a partial document.
type FSSink struct {
	root string
}

// NewFSSink creates root if needed.
func NewFSSink(root string) (*FSSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, ferrors.StorageError("create output directory").WithCause(err).
			WithContext("path", root).
			Build()
	}
	return &FSSink{root: root}, nil
}

// Root returns the output directory.
func (s *FSSink) Root() string {
	return s.root
}

func (s *FSSink) Save(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	target := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return storageErr(err, "create document directory", target)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return storageErr(err, "create temporary file", target)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op once renamed
	}()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return storageErr(err, "write document", target)
	}
	if err := tmp.Close(); err != nil {
		return storageErr(err, "close document", target)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return storageErr(err, "chmod document", target)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return storageErr(err, "rename document", target)
	}
	return nil
}

func (s *FSSink) Close() error { return nil }

func storageErr(err error, msg, path string) error {
	return ferrors.StorageError(msg).WithCause(err).
		WithContext("path", path).
		Build()
}
