package analyzer

import (
	"math"

	"github.com/zombar/contentanalyzer/internal/models"
)

// wordsPerMinute is the assumed reading speed
const wordsPerMinute = 200

// CalculateMetrics computes basic counts and averages for text
func CalculateMetrics(text string) models.Metrics {
	words := splitWords(text)
	sentences := countSentences(text)
	paragraphs := len(splitParagraphs(text))

	var avgWordLength, avgSentenceLength float64
	if len(words) > 0 {
		total := 0
		for _, word := range words {
			total += textLength(word)
		}
		avgWordLength = float64(total) / float64(len(words))
	}
	if sentences > 0 {
		avgSentenceLength = float64(len(words)) / float64(sentences)
	}

	return models.Metrics{
		CharacterCount:        textLength(text),
		WordCount:             len(words),
		SentenceCount:         sentences,
		ParagraphCount:        paragraphs,
		AverageWordLength:     Round(avgWordLength, 1),
		AverageSentenceLength: Round(avgSentenceLength, 1),
		ReadingTimeMinutes:    int(math.Ceil(float64(len(words)) / wordsPerMinute)),
	}
}

// countSentences counts non-blank fragments between runs of . ! or ?
func countSentences(text string) int {
	count := 0
	for _, fragment := range sentenceBreakRe.Split(text, -1) {
		if trimSpace(fragment) != "" {
			count++
		}
	}
	return count
}

// splitParagraphs returns the non-blank blocks separated by blank lines
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range paragraphBreakRe.Split(text, -1) {
		if trimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
