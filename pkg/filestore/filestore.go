package filestore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 2 << 20

var (
	ErrImageTooLarge = errors.New("image must not exceed 2MB")
	ErrNotAnImage    = errors.New("file must be a jpeg, png, gif or webp image")
)

var allowedImages = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store persists uploaded files and maps their stored path to a public URL.
type Store interface {
	Save(dir string, data []byte) (string, error)
	URL(storedPath string) string
	PathFromURL(url string) (string, bool)
	Delete(storedPath string) error
}

// DetectImage sniffs data and returns its extension when it is an accepted image.
func DetectImage(data []byte) (string, error) {
	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}
	mt := mimetype.Detect(data)
	if !allowedImages[mt.String()] {
		return "", ErrNotAnImage
	}
	return mt.Extension(), nil
}

type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore serves files written under root at baseURL, e.g.
// "http://localhost:8080/storage".
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("error creating storage dir: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Save(dir string, data []byte) (string, error) {
	ext, err := DetectImage(data)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", fmt.Errorf("error creating %s: %w", dir, err)
	}

	stored := path.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(stored)), data, 0o644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", stored, err)
	}
	return stored, nil
}

func (s *LocalStore) URL(storedPath string) string {
	return s.baseURL + "/" + storedPath
}

func (s *LocalStore) PathFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Delete removes a stored file; a missing file is not an error.
func (s *LocalStore) Delete(storedPath string) error {
	clean := path.Clean("/" + storedPath)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
