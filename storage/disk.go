package storage

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DiskStore writes uploads under Root/<kind>/.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

func (d *DiskStore) Save(_ context.Context, kind Kind, file *multipart.FileHeader) (string, error) {
	if err := kind.Check(file.Filename); err != nil {
		return "", err
	}

	dir := filepath.Join(d.Root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	path := filepath.Join(dir, storedName(file.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", errors.Wrap(err, "write file")
	}
	if err := dst.Close(); err != nil {
		return "", errors.Wrap(err, "close file")
	}
	return filepath.ToSlash(path), nil
}

// Remove deletes a file previously returned by Save. Missing files are not an error.
func (d *DiskStore) Remove(_ context.Context, location string) error {
	if location == "" {
		return nil
	}
	path := filepath.Clean(filepath.FromSlash(location))
	root := filepath.Clean(d.Root)
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return errors.Errorf("refusing to remove %q outside %q", location, d.Root)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove file")
	}
	return nil
}
