package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the maximum accepted upload size (5 MiB)
const MaxImageSize = 5 << 20

var (
	ErrTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrEmptyFile       = errors.New("file is empty")
)

// allowedTypes maps accepted image content types to file extensions
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Object describes a stored blob
type Object struct {
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// Store writes uploaded images to local disk under a root directory.
// Validation happens before anything touches the disk.
type Store struct {
	root    string
	baseURL string
}

// NewStore creates a new blob store rooted at the given directory
func NewStore(root, baseURL string) *Store {
	return &Store{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Validate checks size and content type without writing anything
func Validate(data []byte, contentType string) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if len(data) > MaxImageSize {
		return ErrTooLarge
	}
	if _, ok := allowedTypes[contentType]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

// Put stores the bytes and returns the public URL and relative path
func (s *Store) Put(data []byte, contentType string) (*Object, error) {
	if err := Validate(data, contentType); err != nil {
		return nil, err
	}

	name := uuid.New().String() + allowedTypes[contentType]
	dir := filepath.Join(s.root, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relative := filepath.ToSlash(filepath.Join("images", name))
	return &Object{
		PublicURL: s.baseURL + "/" + relative,
		Path:      relative,
	}, nil
}
