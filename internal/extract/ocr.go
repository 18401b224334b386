package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/zombar/contentanalyzer/internal/models"
)

// Transcriber reads the text in an encoded JPEG or PNG image
type Transcriber interface {
	ExtractText(ctx context.Context, image []byte, language string) (string, error)
}

// OCRExtractor transcribes raster images. TIFF and BMP input is re-encoded
// as PNG first since vision models only accept JPEG and PNG.
type OCRExtractor struct {
	transcriber Transcriber
}

// NewOCRExtractor creates an OCR extractor backed by transcriber
func NewOCRExtractor(transcriber Transcriber) *OCRExtractor {
	return &OCRExtractor{transcriber: transcriber}
}

// Extract transcribes the image and reports its language and block count
func (e *OCRExtractor) Extract(ctx context.Context, data []byte, opts Options) (*Result, error) {
	img, err := normalizeImage(data)
	if err != nil {
		return nil, err
	}

	raw, err := e.transcriber.ExtractText(ctx, img, opts.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from image: %w", err)
	}

	text := CleanText(raw)
	return &Result{
		Text: text,
		Metadata: models.ExtractionMetadata{
			Language: opts.Language,
			Blocks:   countBlocks(text),
		},
	}, nil
}

// normalizeImage returns data unchanged for JPEG and PNG and converts TIFF
// and BMP to PNG.
func normalizeImage(data []byte) ([]byte, error) {
	mt := mimetype.Detect(data)

	var decode func(*bytes.Reader) (image.Image, error)
	switch {
	case mt.Is("image/jpeg"), mt.Is("image/png"):
		return data, nil
	case mt.Is("image/tiff"):
		decode = func(r *bytes.Reader) (image.Image, error) { return tiff.Decode(r) }
	case mt.Is("image/bmp"):
		decode = func(r *bytes.Reader) (image.Image, error) { return bmp.Decode(r) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", mt.String(), err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
