package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-tutor-portal/storage"
	"github.com/pkg/errors"
)

const (
	storageFile = "storage.json"
	defaultDir  = ".tutor-portal"
)

// FileStore implements storage.Repo using a JSON object on disk.
// Every call re-reads the file so values written by another process are seen.
type FileStore struct {
	path string
	lock sync.Mutex
}

var _ storage.Repo = (*FileStore)(nil)

// DefaultDir returns ~/.tutor-portal.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "[filestore] failed to get user home directory")
	}
	return filepath.Join(home, defaultDir), nil
}

// New creates the directory if needed and returns a store backed by dir/storage.json.
// An empty dir selects DefaultDir.
func New(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(err, "[filestore] failed to create %s", dir)
	}
	return &FileStore{path: filepath.Join(dir, storageFile)}, nil
}

// Path is the backing file.
func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	values[key] = value
	return fs.save(values)
}

func (fs *FileStore) Delete(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "[filestore] failed to remove storage file")
		}
		return nil
	}
	return fs.save(values)
}

func (fs *FileStore) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, errors.Wrap(err, "[filestore] failed to read storage file")
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrap(err, "[filestore] corrupted storage file")
	}
	return values, nil
}

// save writes to a temp file and renames it over the original.
func (fs *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[filestore] failed to marshal values")
	}
	data = append(data, '\n')

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return errors.Wrap(err, "[filestore] failed to write temp file")
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "[filestore] failed to replace storage file")
	}
	return nil
}
