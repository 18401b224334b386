package analyzer

import (
	"math"

	"github.com/zombar/contentanalyzer/internal/models"
)

// substantialParagraph is the token count above which an opening or closing
// paragraph counts as an introduction or conclusion.
const substantialParagraph = 10

// AnalyzeStructure inspects paragraph layout and the spread of paragraph
// lengths. Text without paragraphs reports no structure and Low variation.
func AnalyzeStructure(text string) models.Structure {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return models.Structure{ParagraphLengthVariation: models.VariationLow}
	}

	lengths := make([]float64, len(paragraphs))
	var sum float64
	for i, p := range paragraphs {
		lengths[i] = float64(len(splitWhitespace(p)))
		sum += lengths[i]
	}

	mean := sum / float64(len(lengths))
	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(lengths)))

	variation := models.VariationHigh
	switch {
	case stdDev < 10:
		variation = models.VariationLow
	case stdDev < 30:
		variation = models.VariationMedium
	}

	last := lengths[len(lengths)-1]
	return models.Structure{
		HasIntro:                 lengths[0] > substantialParagraph,
		HasBody:                  len(paragraphs) > 1,
		HasConclusion:            len(paragraphs) > 2 && last > substantialParagraph,
		ParagraphLengthVariation: variation,
	}
}
