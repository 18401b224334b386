package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/zombar/contentanalyzer/internal/models"
)

var disableConfigDir sync.Once

// PDFExtractor validates documents with pdfcpu and reads page text with
// ledongthuc/pdf.
type PDFExtractor struct {
	conf *model.Configuration
}

// NewPDFExtractor creates a PDF extractor using pdfcpu's relaxed validation
func NewPDFExtractor() *PDFExtractor {
	disableConfigDir.Do(pdfapi.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFExtractor{conf: conf}
}

// Extract returns the text of every page, pages separated by a blank line
func (e *PDFExtractor) Extract(ctx context.Context, data []byte, _ Options) (*Result, error) {
	pdfCtx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), e.conf)
	if err != nil {
		return nil, fmt.Errorf("invalid or corrupted PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only pages carry no text layer
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	return &Result{
		Text:     CleanText(strings.Join(pages, "\n\n")),
		Metadata: pdfMetadata(pdfCtx),
	}, nil
}

func pdfMetadata(ctx *model.Context) models.ExtractionMetadata {
	return models.ExtractionMetadata{
		Pages:  ctx.PageCount,
		Title:  strings.TrimSpace(ctx.Title),
		Author: strings.TrimSpace(ctx.Author),
	}
}
