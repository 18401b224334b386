package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/zombar/contentanalyzer/internal/models"
)

var vowelGroupRe = regexp.MustCompile(`[aeiouy]+`)

// CalculateReadability computes the Flesch reading-ease score and maps it to
// a level and school grade. Text with no words or no sentences is reported
// as the hardest band.
func CalculateReadability(text string, metrics models.Metrics) models.Readability {
	if metrics.SentenceCount == 0 || metrics.WordCount == 0 {
		return models.Readability{
			Score:      0,
			Level:      models.ReadabilityVeryDifficult,
			GradeLevel: 16,
		}
	}

	avgSentenceLength := float64(metrics.WordCount) / float64(metrics.SentenceCount)
	avgSyllablesPerWord := float64(estimateSyllables(text)) / float64(metrics.WordCount)

	score := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord
	score = math.Max(0, math.Min(100, score))

	level, grade := readabilityBand(score)
	return models.Readability{
		Score:      int(Round(score, 0)),
		Level:      level,
		GradeLevel: grade,
	}
}

// readabilityBand maps an unrounded score to its level and grade
func readabilityBand(score float64) (models.ReadabilityLevel, int) {
	switch {
	case score >= 90:
		return models.ReadabilityVeryEasy, 5
	case score >= 80:
		return models.ReadabilityEasy, 6
	case score >= 70:
		return models.ReadabilityModerate, 8
	case score >= 60:
		return models.ReadabilityModerate, 10
	case score >= 50:
		return models.ReadabilityDifficult, 12
	default:
		return models.ReadabilityVeryDifficult, 16
	}
}

// estimateSyllables approximates syllables as vowel groups per token.
// Tokens of three characters or fewer, including empty edge tokens, count
// as one syllable.
func estimateSyllables(text string) int {
	syllables := 0
	for _, word := range splitWhitespace(strings.ToLower(text)) {
		if textLength(word) <= 3 {
			syllables++
			continue
		}
		if groups := len(vowelGroupRe.FindAllStringIndex(word, -1)); groups > 0 {
			syllables += groups
		} else {
			syllables++
		}
	}
	return syllables
}
