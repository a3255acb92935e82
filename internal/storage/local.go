package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/commercekit/catalog-service/internal/config"
	apperrors "github.com/commercekit/catalog-service/pkg/util"
)

// LocalStore writes uploaded images to a directory on disk and hands
// back the relative path to persist alongside the entity.
type LocalStore struct {
	dir     string
	maxSize int64
}

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(cfg config.UploadConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     cfg.Dir,
		maxSize: int64(cfg.MaxSizeMB) * 1024 * 1024,
	}, nil
}

// Dir returns the root directory files are stored under.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save stores the uploaded file under a unique name and returns that
// name. The original filename only contributes its extension.
func (s *LocalStore) Save(file *multipart.FileHeader) (string, error) {
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.maxSize})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperrors.NewValidationError("unsupported file type", map[string]any{"extension": ext})
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}
