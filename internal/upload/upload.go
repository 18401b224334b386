// Package upload validates incoming files and stages them on disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/zombar/contentanalyzer/internal/models"
)

// DefaultMaxFileSize is the upload limit when none is configured (10 MiB)
const DefaultMaxFileSize int64 = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("invalid file type: only PDF and image files are allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// allowedTypes is checked with mimetype's alias-aware Is
var allowedTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/tiff",
	"image/bmp",
}

// Stager writes validated uploads into a directory
type Stager struct {
	dir     string
	maxSize int64
	now     func() time.Time
}

// NewStager creates the upload directory if needed
func NewStager(dir string, maxSize int64) (*Stager, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Stager{dir: dir, maxSize: maxSize, now: time.Now}, nil
}

// Dir returns the upload directory
func (s *Stager) Dir() string {
	return s.dir
}

// MaxSize returns the configured size limit in bytes
func (s *Stager) MaxSize() int64 {
	return s.maxSize
}

// Stage validates the content read from r and saves it as <uuid><ext>.
// The type is sniffed from the bytes; the client's filename and declared
// content type are not trusted.
func (s *Stager) Stage(originalName string, r io.Reader) (*models.UploadedFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxSize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	mt := mimetype.Detect(data)
	if !allowed(mt) {
		return nil, fmt.Errorf("%w (got %s)", ErrUnsupportedType, mt.String())
	}
	mimeType := baseType(mt.String())

	id := uuid.NewString()
	filename := id + mt.Extension()
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	return &models.UploadedFile{
		ID:           id,
		OriginalName: filepath.Base(originalName),
		Filename:     filename,
		Path:         path,
		Size:         int64(len(data)),
		MIMEType:     mimeType,
		FileType:     FileTypeForMIME(mimeType),
		UploadedAt:   s.now().UTC(),
	}, nil
}

// Remove deletes a staged file. A file that is already gone is not an error.
func (s *Stager) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// FileTypeForMIME maps a MIME type to the extraction family that handles it
func FileTypeForMIME(mimeType string) models.FileType {
	mimeType = baseType(mimeType)
	switch {
	case mimeType == "application/pdf":
		return models.FileTypePDF
	case strings.HasPrefix(mimeType, "image/"):
		return models.FileTypeImage
	default:
		return models.FileTypeUnknown
	}
}

// IsValidationError reports whether err was caused by the upload itself
// rather than the server
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrEmptyFile)
}

func allowed(mt *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
