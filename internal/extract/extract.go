// Package extract pulls plain text out of uploaded PDFs and raster images.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/zombar/contentanalyzer/internal/models"
)

var (
	// ErrUnsupportedType is returned for files no extractor handles
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExtractorUnavailable is returned when the extractor for a file
	// type has not been configured, e.g. OCR is disabled
	ErrExtractorUnavailable = errors.New("extractor not available")
)

// Error reports a failed extraction. Callers use errors.As to tell an
// extraction failure apart from I/O or validation errors.
type Error struct {
	FileType models.FileType
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.FileType, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Options tune a single extraction
type Options struct {
	// Language is the OCR language code, e.g. "eng"
	Language string
}

// Result is the cleaned text and extractor-specific metadata
type Result struct {
	Text     string                    `json:"text"`
	Metadata models.ExtractionMetadata `json:"metadata"`
}

// Extractor turns raw file bytes into text
type Extractor interface {
	Extract(ctx context.Context, data []byte, opts Options) (*Result, error)
}

// Service routes files to the extractor for their type
type Service struct {
	pdf      Extractor
	ocr      Extractor
	language string
	logger   *slog.Logger
}

// NewService creates an extraction service. ocr may be nil, in which case
// image files fail with ErrExtractorUnavailable.
func NewService(pdf, ocr Extractor, defaultLanguage string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLanguage == "" {
		defaultLanguage = "eng"
	}
	return &Service{
		pdf:      pdf,
		ocr:      ocr,
		language: defaultLanguage,
		logger:   logger.With("component", "extract"),
	}
}

// Extract reads the file at path and extracts its text
func (s *Service) Extract(ctx context.Context, path string, fileType models.FileType, opts Options) (*Result, error) {
	extractor, err := s.extractorFor(fileType)
	if err != nil {
		return nil, err
	}
	if opts.Language == "" {
		opts.Language = s.language
	}

	ctx, span := otel.Tracer("contentanalyzer/extract").Start(ctx, "extract.file")
	defer span.End()
	span.SetAttributes(
		attribute.String("file.type", string(fileType)),
		attribute.String("ocr.language", opts.Language),
	)

	data, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	start := time.Now()
	result, err := extractor.Extract(ctx, data, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.Warn("extraction failed", "file_type", fileType, "bytes", len(data), "error", err)
		return nil, &Error{FileType: fileType, Err: err}
	}

	span.SetAttributes(attribute.Int("text.length", len(result.Text)))
	s.logger.Info("extraction complete",
		"file_type", fileType,
		"bytes", len(data),
		"text_length", len(result.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) extractorFor(fileType models.FileType) (Extractor, error) {
	var e Extractor
	switch fileType {
	case models.FileTypePDF:
		e = s.pdf
	case models.FileTypeImage:
		e = s.ocr
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
	if e == nil {
		return nil, &Error{FileType: fileType, Err: ErrExtractorUnavailable}
	}
	return e, nil
}
