package storage

import (
	"io"
	"os"
	"path/filepath"
)

// AssetStorage gives read-only access to files shipped next to the binary.
type AssetStorage interface {
	Get(path string) (io.ReadCloser, error)
	ReadAll(path string) ([]byte, error)
	Exists(path string) bool
}

type fileStorage struct {
	basePath string
}

func NewAssetStorage(basePath string) AssetStorage {
	return &fileStorage{basePath: basePath}
}

func (s *fileStorage) Get(path string) (io.ReadCloser, error) {
	return os.Open(s.fullPath(path))
}

func (s *fileStorage) ReadAll(path string) ([]byte, error) {
	return os.ReadFile(s.fullPath(path))
}

func (s *fileStorage) Exists(path string) bool {
	_, err := os.Stat(s.fullPath(path))
	return err == nil
}

// fullPath keeps lookups inside basePath.
func (s *fileStorage) fullPath(path string) string {
	return filepath.Join(s.basePath, filepath.Clean("/"+path))
}
