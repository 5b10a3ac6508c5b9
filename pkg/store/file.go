package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// fileStore is a backend that keeps the document in a single file.
type fileStore struct {
	path string
}

// NewFileStore returns a Store that keeps the document in the file at path.
func NewFileStore(path string) (Store, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	f := &fileStore{
		path: path,
	}
	return newDocumentStore(f), nil
}

func (f *fileStore) name() string {
	return f.path
}

// exists reports whether the file is present.
func (f *fileStore) exists() (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "unable to stat %s", f.path)
}

// read loads the contents of the file.
func (f *fileStore) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", f.path)
	}
	return data, nil
}

// write replaces the contents of the file, creating parent directories as needed.
func (f *fileStore) write(data []byte) error {
	log.Trace("--> fileStore.write")
	defer log.Trace("<-- fileStore.write")

	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "unable to create directory %s", dir)
		}
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		log.Errorf("Unable to save the document %s, error=%s", f.path, err.Error())
		return errors.Wrapf(err, "unable to write %s", f.path)
	}
	return nil
}

func (f *fileStore) close() error {
	return nil
}
